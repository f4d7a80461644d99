package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/utils"
)

// UserRepo provides persistence for resident accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUserParams carries the fields accepted at registration.  Birthday,
// RoomNumber and Phone are optional and stored as NULL when empty.
type NewUserParams struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Birthday   *time.Time
	RoomNumber *string
	Phone      *string
}

// Create inserts a user with the default "patient" role and returns its ID.
func (r *UserRepo) Create(ctx context.Context, p NewUserParams, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, birthday, room_number, phone)
		 VALUES (?,?,?,?,?,?,?)`,
		email, hash, p.FirstName, p.LastName, p.Birthday, p.RoomNumber, p.Phone)
	if err != nil {
		// 1062 is MySQL's duplicate-key error; the unique key is on email.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		`SELECT id,email,password_hash,first_name,last_name,role,birthday,room_number,phone,is_active,created_at,updated_at
		 FROM users WHERE email=? LIMIT 1`, email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		`SELECT id,email,password_hash,first_name,last_name,role,birthday,room_number,phone,is_active,created_at,updated_at
		 FROM users WHERE id=? LIMIT 1`, id)
}

// UpdateProfile updates the editable profile fields for a user.  Email,
// role and password are changed through dedicated flows, not here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string, birthday *time.Time, roomNumber, phone *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name=?, last_name=?, birthday=?, room_number=?, phone=? WHERE id=?`,
		firstName, lastName, birthday, roomNumber, phone, id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var (
		u          model.User
		birthday   sql.NullTime
		roomNumber sql.NullString
		phone      sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&birthday, &roomNumber, &phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if birthday.Valid {
		b := birthday.Time
		u.Birthday = &b
	}
	if roomNumber.Valid {
		rn := roomNumber.String
		u.RoomNumber = &rn
	}
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	return u, nil
}
