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
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamCreatorInvalid = errors.New("team creator reference invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
	MemberCounts(ctx context.Context) ([]models.TeamDistribution, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (name, sport, department, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		team.Name,
		team.Sport,
		team.Department,
		team.CreatedBy,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "teams_created_by_fkey" {
			return ErrTeamCreatorInvalid
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, sport, department, created_by, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Sport,
		&team.Department,
		&team.CreatedBy,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

// List returns all teams newest first, with the creator's name and email
// and the member count hydrated.
func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT
			t.id, t.name, t.sport, t.department, t.created_by, t.created_at,
			c.name, c.email,
			COUNT(m.id)
		FROM teams t
		JOIN users c ON t.created_by = c.id
		LEFT JOIN users m ON m.team_id = t.id
		GROUP BY t.id, c.name, c.email
		ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		var creator models.User
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Sport,
			&team.Department,
			&team.CreatedBy,
			&team.CreatedAt,
			&creator.Name,
			&creator.Email,
			&team.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		creator.ID = team.CreatedBy
		team.Creator = &creator
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams SET
			name = $1,
			sport = $2,
			department = $3
		WHERE id = $4`

	result, err := executor.ExecContext(ctx, query,
		team.Name,
		team.Sport,
		team.Department,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete removes the team row only. Members must have their team reference
// cleared first, in the same transaction (see services.TeamService).
func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

func (r *postgresTeamRepository) MemberCounts(ctx context.Context) ([]models.TeamDistribution, error) {
	query := `
		SELECT t.name, COUNT(m.id)
		FROM teams t
		LEFT JOIN users m ON m.team_id = t.id
		GROUP BY t.id
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load team member counts: %w", err)
	}
	defer rows.Close()

	distribution := make([]models.TeamDistribution, 0)
	for rows.Next() {
		var d models.TeamDistribution
		if err := rows.Scan(&d.Name, &d.Members); err != nil {
			return nil, err
		}
		distribution = append(distribution, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return distribution, nil
}
