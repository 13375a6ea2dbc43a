package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "tsharaki/internal/config"
	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, user_id, name, email,
	COALESCE(phone_number, ''), COALESCE(profile_picture, ''),
	user_type, COALESCE(gender::text, ''),
	COALESCE(rating, 0), total_ratings, cin_verified,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	var gender string
	err := row.Scan(
		&u.ID, &u.UserID, &u.Name, &u.Email,
		&u.PhoneNumber, &u.ProfilePicture,
		&u.UserType, &gender,
		&u.Rating, &u.TotalRatings, &u.CinVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	u.Gender = domain.GenderType(gender)
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// GetByAuthID resolves the user row for an auth account. Returns (nil, nil)
// when no row exists yet: the session is then profile-incomplete, not
// broken.
func (r UserRepository) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, authID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user by auth id: %w", err)
	}
	return &u, nil
}

// GetAccountByEmail loads the credential row used by sign-in.
func (r UserRepository) GetAccountByEmail(ctx context.Context, email string) (id, passwordHash string, err error) {
	err = r.db().QueryRowContext(ctx,
		`SELECT id, password_hash FROM auth_accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&id, &passwordHash)
	if err == sql.ErrNoRows {
		return "", "", domain.NotFoundError{Resource: "account"}
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load account: %w", err)
	}
	return id, passwordHash, nil
}

// CreateWithAccount inserts the auth account, the user row and the presence
// profile in one transaction. A duplicate email surfaces as a conflict.
func (r UserRepository) CreateWithAccount(ctx context.Context, passwordHash string, u models.User, p models.Profile) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO auth_accounts (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		u.UserID, u.Email, passwordHash, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "account", Msg: "email is already registered", Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	var gender any
	if u.Gender != "" {
		gender = string(u.Gender)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, user_id, name, email, phone_number, user_type, gender, total_ratings, cin_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, 0, FALSE, $8, $8)`,
		u.ID, u.UserID, u.Name, u.Email, u.PhoneNumber, u.UserType, gender, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "user", Msg: "email is already registered", Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, display_name, preferred_language, status, member_since, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $6, $6)`,
		p.ID, p.UserID, p.DisplayName, p.PreferredLanguage, p.Status, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdatePartial applies only the fields present on the update. Presence is
// carried by pointers, absent keys never touch the row.
func (r UserRepository) UpdatePartial(ctx context.Context, id string, upd models.UserUpdate) error {
	set := []string{}
	args := []any{}
	n := 1

	if upd.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", n))
		args = append(args, strings.TrimSpace(*upd.Name))
		n++
	}
	if upd.PhoneNumber != nil {
		set = append(set, fmt.Sprintf("phone_number = NULLIF($%d, '')", n))
		args = append(args, strings.TrimSpace(*upd.PhoneNumber))
		n++
	}
	if upd.UserType != nil {
		set = append(set, fmt.Sprintf("user_type = $%d", n))
		args = append(args, *upd.UserType)
		n++
	}
	if upd.Gender != nil {
		set = append(set, fmt.Sprintf("gender = $%d", n))
		args = append(args, *upd.Gender)
		n++
	}
	if len(set) == 0 {
		return nil
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", n))
	args = append(args, time.Now().UTC())
	n++
	args = append(args, id)

	res, err := r.db().ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(set, ", "), n),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}
