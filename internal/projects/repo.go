package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

var (
	ErrNotFound = errors.New("project not found")

	// ErrStaleSeq means a newer generation request committed first.
	ErrStaleSeq = errors.New("stale generation sequence")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `
public_id, owner_id::text, title, description, status, generation_seq,
empathy_map, personas, selected_persona_ids, problem, solutions,
selected_solution_id, business_model, features, tech_spec, validation,
architecture, mockup, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var selectedSolution *string
	err := row.Scan(
		&p.PublicID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.GenerationSeq,
		&p.EmpathyMap, &p.Personas, &p.SelectedPersonaIDs, &p.Problem, &p.Solutions,
		&selectedSolution, &p.BusinessModel, &p.Features, &p.TechSpec, &p.Validation,
		&p.Architecture, &p.Mockup, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if selectedSolution != nil {
		p.SelectedSolutionID = *selectedSolution
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, ownerID, title, description string) (*domain.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("title required")
	}

	for i := 0; i < 5; i++ {
		publicID, err := domain.NewPublicID()
		if err != nil {
			return nil, err
		}

		q := `
insert into projects (public_id, owner_id, title, description)
values ($1, $2::uuid, $3, $4)
returning ` + projectColumns + `;`

		p, err := scanProject(r.db.QueryRow(ctx, q, publicID, ownerID, title, description))
		if err == nil {
			return p, nil
		}

		// unique violation on public_id, retry with a fresh one
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// ProjectSummary is the list view: no stage payloads.
type ProjectSummary struct {
	PublicID    string        `json:"public_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func (r *Repo) List(ctx context.Context, ownerID string) ([]ProjectSummary, error) {
	const q = `
select public_id, title, description, status, created_at::text, updated_at::text
from projects
where owner_id = $1::uuid
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectSummary, 0, 16)
	for rows.Next() {
		var p ProjectSummary
		if err := rows.Scan(&p.PublicID, &p.Title, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get loads a project without ownership filtering; callers enforce
// access (owners write, admins read).
func (r *Repo) Get(ctx context.Context, publicID string) (*domain.Project, error) {
	q := `select ` + projectColumns + ` from projects where public_id = $1;`
	return scanProject(r.db.QueryRow(ctx, q, publicID))
}

// patchColumns whitelists the fields a draft PATCH may touch and maps
// them to their columns. Stage outputs the user may edit after
// generation are included; AI-only payloads are not.
var patchColumns = map[string]struct {
	column string
	jsonb  bool
}{
	"title":          {"title", false},
	"description":    {"description", false},
	"business_model": {"business_model", true},
	"features":       {"features", true},
	"tech_spec":      {"tech_spec", true},
}

// ApplyPatch updates the whitelisted draft fields. Unknown fields are
// rejected before any write.
func (r *Repo) ApplyPatch(ctx context.Context, ownerID, publicID string, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	sets := make([]string, 0, len(patch))
	args := []any{ownerID, publicID}
	for field, value := range patch {
		spec, ok := patchColumns[field]
		if !ok {
			return fmt.Errorf("field %q not editable", field)
		}
		if spec.jsonb {
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", field, err)
			}
			args = append(args, data)
		} else {
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q must be a string", field)
			}
			args = append(args, s)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", spec.column, len(args)))
	}

	q := fmt.Sprintf(`
update projects
set %s, updated_at = now()
where owner_id = $1::uuid and public_id = $2;`, strings.Join(sets, ", "))

	ct, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the project; generation-log rows go with it via the
// cascade on project_public_id.
func (r *Repo) Delete(ctx context.Context, ownerID, publicID string) error {
	const q = `delete from projects where owner_id = $1::uuid and public_id = $2;`
	ct, err := r.db.Exec(ctx, q, ownerID, publicID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NextGenerationSeq reserves the next request number for the project.
// The matching CommitStageResult only lands if no later request has
// reserved a higher number, which makes regeneration last-request-wins.
func (r *Repo) NextGenerationSeq(ctx context.Context, ownerID, publicID string) (int64, error) {
	const q = `
update projects
set generation_seq = generation_seq + 1
where owner_id = $1::uuid and public_id = $2
returning generation_seq;
`
	var seq int64
	err := r.db.QueryRow(ctx, q, ownerID, publicID).Scan(&seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return seq, err
}

// stageColumn maps a wizard stage to the payload column its result is
// written to. The prototype stage spans three columns and is committed
// through CommitPrototypeResult instead.
var stageColumn = map[domain.Stage]string{
	domain.StageEmpathize:    "empathy_map",
	domain.StagePersonas:     "personas",
	domain.StageDefine:       "problem",
	domain.StageIdeate:       "solutions",
	domain.StageValidate:     "validation",
	domain.StageArchitecture: "architecture",
	domain.StageMockup:       "mockup",
}

// CommitStageResult writes a parsed stage payload and advances status
// monotonically, guarded by the generation sequence.
func (r *Repo) CommitStageResult(ctx context.Context, ownerID, publicID string, stage domain.Stage, payload any, seq int64) (*domain.Project, error) {
	column, ok := stageColumn[stage]
	if !ok {
		return nil, fmt.Errorf("stage %q has no payload column", stage)
	}
	return r.commit(ctx, ownerID, publicID, stage, seq, map[string]any{column: payload})
}

// CommitPrototypeResult writes the three prototype payloads in one
// statement.
func (r *Repo) CommitPrototypeResult(ctx context.Context, ownerID, publicID string, canvas, features, spec any, seq int64) (*domain.Project, error) {
	return r.commit(ctx, ownerID, publicID, domain.StagePrototype, seq, map[string]any{
		"business_model": canvas,
		"features":       features,
		"tech_spec":      spec,
	})
}

func (r *Repo) commit(ctx context.Context, ownerID, publicID string, stage domain.Stage, seq int64, payloads map[string]any) (*domain.Project, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current domain.Status
	var currentSeq int64
	const sel = `
select status, generation_seq from projects
where owner_id = $1::uuid and public_id = $2
for update;
`
	if err := tx.QueryRow(ctx, sel, ownerID, publicID).Scan(&current, &currentSeq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if currentSeq != seq {
		return nil, fmt.Errorf("%w: have %d, committed %d", ErrStaleSeq, seq, currentSeq)
	}

	next := domain.AdvanceStatus(current, domain.StatusForStage(stage))

	sets := []string{"status = $3", "updated_at = now()"}
	args := []any{ownerID, publicID, next}
	for column, payload := range payloads {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", column, err)
		}
		args = append(args, data)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	q := fmt.Sprintf(`
update projects
set %s
where owner_id = $1::uuid and public_id = $2
returning `+projectColumns+`;`, strings.Join(sets, ", "))

	p, err := scanProject(tx.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// SetSelectedPersonas stores the ids chosen for the define stage.
func (r *Repo) SetSelectedPersonas(ctx context.Context, ownerID, publicID string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	const q = `
update projects
set selected_persona_ids = $3, updated_at = now()
where owner_id = $1::uuid and public_id = $2;
`
	ct, err := r.db.Exec(ctx, q, ownerID, publicID, data)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSelectedSolution stores the single chosen solution id.
func (r *Repo) SetSelectedSolution(ctx context.Context, ownerID, publicID, solutionID string) error {
	const q = `
update projects
set selected_solution_id = $3, updated_at = now()
where owner_id = $1::uuid and public_id = $2;
`
	ct, err := r.db.Exec(ctx, q, ownerID, publicID, solutionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll is the admin oversight view across owners.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]ProjectSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
select public_id, title, description, status, created_at::text, updated_at::text
from projects
order by updated_at desc
limit $1;
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectSummary, 0, limit)
	for rows.Next() {
		var p ProjectSummary
		if err := rows.Scan(&p.PublicID, &p.Title, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ArchiveStale marks projects untouched for the given number of days as
// ARCHIVED. Completed and already archived projects are left alone.
func (r *Repo) ArchiveStale(ctx context.Context, days int) (int64, error) {
	const q = `
update projects
set status = 'ARCHIVED', updated_at = now()
where updated_at < now() - make_interval(days => $1)
  and status not in ('COMPLETED', 'ARCHIVED');
`
	ct, err := r.db.Exec(ctx, q, days)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
