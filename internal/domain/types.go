package domain

// Enumerated domains mirror the store schema; values outside them are
// rejected before any write.

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type GenderPreference string

const (
	PreferAny   GenderPreference = "any"
	PreferMen   GenderPreference = "men"
	PreferWomen GenderPreference = "women"
)

func (p GenderPreference) Valid() bool {
	switch p {
	case PreferAny, PreferMen, PreferWomen:
		return true
	}
	return false
}

type GenderType string

const (
	GenderMale   GenderType = "male"
	GenderFemale GenderType = "female"
	GenderOther  GenderType = "other"
)

func (g GenderType) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type UserType string

const (
	UserDriver    UserType = "driver"
	UserPassenger UserType = "passenger"
)

func (t UserType) Valid() bool {
	switch t {
	case UserDriver, UserPassenger:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusOffline UserStatus = "offline"
	StatusOnline  UserStatus = "online"
	StatusInCall  UserStatus = "in_call"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusOffline, StatusOnline, StatusInCall:
		return true
	}
	return false
}

type CallStatus string

const (
	CallWaiting   CallStatus = "waiting"
	CallConnected CallStatus = "connected"
	CallEnded     CallStatus = "ended"
)

func (s CallStatus) Valid() bool {
	switch s {
	case CallWaiting, CallConnected, CallEnded:
		return true
	}
	return false
}

type Language string

var languages = map[Language]bool{
	"english": true, "spanish": true, "french": true, "german": true,
	"italian": true, "portuguese": true, "arabic": true, "chinese": true,
	"japanese": true, "korean": true, "russian": true, "hindi": true,
}

func (l Language) Valid() bool {
	return languages[l]
}
