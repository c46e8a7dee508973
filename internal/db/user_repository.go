package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	queue *DBQueue
}

func NewUserRepository(queue *DBQueue) *UserRepository {
	return &UserRepository{queue: queue}
}

// CreateOrUpdate refreshes profile fields. Role and parent link are only
// written on insert; use SetParentRole and LinkChild to change them.
func (r *UserRepository) CreateOrUpdate(user *models.User) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO users (id, first_name, last_name, username, is_parent, parent_id)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				username = excluded.username
		`, user.ID, user.FirstName, user.LastName, user.Username, user.IsParent, user.ParentID)
		return nil, err
	})
	return err
}

func (r *UserRepository) SetParentRole(userID int64, isParent bool) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO users (id, is_parent) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET is_parent = excluded.is_parent
		`, userID, isParent)
		return nil, err
	})
	return err
}

func (r *UserRepository) LinkChild(parentID, childID int64) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`UPDATE users SET parent_id = ? WHERE id = ?`, parentID, childID)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, childID)
		}
		return nil, nil
	})
	return err
}

const userColumns = `id, first_name, last_name, username, is_parent, parent_id, created_at`

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
		user, err := scanUser(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, id)
		}
		return user, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (r *UserRepository) GetChildren(parentID int64) ([]*models.User, error) {
	return r.list(`SELECT `+userColumns+` FROM users WHERE parent_id = ? ORDER BY id`, parentID)
}

func (r *UserRepository) list(query string, args ...interface{}) ([]*models.User, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var users []*models.User
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.User), nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var firstName, lastName, username sql.NullString
	var isParent sql.NullBool
	var parentID sql.NullInt64
	var createdAt sql.NullTime
	if err := row.Scan(&user.ID, &firstName, &lastName, &username, &isParent, &parentID, &createdAt); err != nil {
		return nil, err
	}
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.Username = username.String
	user.IsParent = isParent.Bool
	user.ParentID = parentID.Int64
	user.CreatedAt = createdAt.Time
	return &user, nil
}
