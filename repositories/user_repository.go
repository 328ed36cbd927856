package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrUserTeamInvalid   = errors.New("user team reference invalid")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListStudents(ctx context.Context) ([]models.User, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.User, error)
	AssignTeam(ctx context.Context, exec SQLExecutor, userID int, teamID *int) error
	ClearTeamMembers(ctx context.Context, exec SQLExecutor, teamID int) error
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, student_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.StudentID,
		user.TeamID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "users_email_key" {
					return ErrUserEmailConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "users_team_id_fkey" {
					return ErrUserTeamInvalid
				}
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns the user with their team hydrated when assigned.
func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT
			u.id, u.name, u.email, u.password_hash, u.role, u.student_id, u.team_id, u.created_at,
			t.id, t.name, t.sport, t.department, t.created_by, t.created_at
		FROM users u
		LEFT JOIN teams t ON u.team_id = t.id
		WHERE u.id = $1`

	var user models.User
	var (
		teamID         sql.NullInt64
		teamName       sql.NullString
		teamSport      sql.NullString
		teamDepartment sql.NullString
		teamCreatedBy  sql.NullInt64
		teamCreatedAt  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.StudentID,
		&user.TeamID,
		&user.CreatedAt,
		&teamID,
		&teamName,
		&teamSport,
		&teamDepartment,
		&teamCreatedBy,
		&teamCreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user with team: %w", err)
	}

	if teamID.Valid {
		team := models.Team{
			ID:        int(teamID.Int64),
			Name:      teamName.String,
			Sport:     teamSport.String,
			CreatedBy: int(teamCreatedBy.Int64),
			CreatedAt: teamCreatedAt.Time,
		}
		if teamDepartment.Valid {
			dept := teamDepartment.String
			team.Department = &dept
		}
		user.Team = &team
	}

	return &user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, student_id, team_id, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// ListStudents returns all STUDENT users sorted by name, with team names
// hydrated for the admin directory.
func (r *postgresUserRepository) ListStudents(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT
			u.id, u.name, u.email, u.password_hash, u.role, u.student_id, u.team_id, u.created_at,
			t.name
		FROM users u
		LEFT JOIN teams t ON u.team_id = t.id
		WHERE u.role = $1
		ORDER BY u.name ASC`

	rows, err := r.db.QueryContext(ctx, query, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		var teamName sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.StudentID,
			&user.TeamID,
			&user.CreatedAt,
			&teamName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		if teamName.Valid && user.TeamID != nil {
			user.Team = &models.Team{ID: *user.TeamID, Name: teamName.String}
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, student_id, team_id, created_at
		FROM users
		WHERE team_id = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.StudentID,
			&user.TeamID,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignTeam sets (or clears, with a nil teamID) a user's team reference.
func (r *postgresUserRepository) AssignTeam(ctx context.Context, exec SQLExecutor, userID int, teamID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE users SET team_id = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "users_team_id_fkey" {
			return ErrUserTeamInvalid
		}
		return fmt.Errorf("failed to assign team to user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

// ClearTeamMembers nulls the team reference of every member of a team.
// Zero affected rows is fine: the team may simply have no members.
func (r *postgresUserRepository) ClearTeamMembers(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE users SET team_id = NULL WHERE team_id = $1`
	if _, err := executor.ExecContext(ctx, query, teamID); err != nil {
		return fmt.Errorf("failed to clear team members: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.StudentID,
		&user.TeamID,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
