package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

const prospectColumns = `id, company_name, contact_name, email, phone, industry, company_size,
	website, notes, tags, status, priority, score, created_at, updated_at, last_contact`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ProspectRepository struct {
	DB  *DB
	Now func() time.Time
}

func NewProspectRepository(db *DB) *ProspectRepository {
	return &ProspectRepository{DB: db, Now: time.Now}
}

func (r *ProspectRepository) now() time.Time {
	return storedTime(r.Now())
}

// storedTime is t at the precision both dialects keep.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (r *ProspectRepository) Insert(ctx context.Context, p *entity.Prospect) error {
	tags, err := json.Marshal(nonNilTags(p.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	exists, err := r.existsByEmail(ctx, tx, p.Email, "")
	if err != nil {
		return err
	}
	if exists {
		return entity.ErrEmailAlreadyExists
	}

	if p.LastContact != nil {
		lc := storedTime(*p.LastContact)
		p.LastContact = &lc
	}

	now := r.now()
	d := r.DB.Dialect
	query := d.Rebind(`INSERT INTO prospects (` + prospectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = tx.ExecContext(ctx, query,
		p.ID,
		p.CompanyName,
		p.ContactName,
		p.Email,
		nullString(p.Phone),
		nullString(p.Industry),
		nullString(p.CompanySize),
		nullString(p.Website),
		nullString(p.Notes),
		string(tags),
		string(p.Status),
		string(p.Priority),
		p.Score,
		d.Time(now),
		d.Time(now),
		d.NullTime(p.LastContact),
	)
	if err != nil {
		if d.IsUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert prospect: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if d.IsUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("commit insert: %w", err)
	}

	p.Tags = nonNilTags(p.Tags)
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *ProspectRepository) Get(ctx context.Context, id string) (*entity.Prospect, error) {
	return r.get(ctx, r.DB, id)
}

func (r *ProspectRepository) get(ctx context.Context, q querier, id string) (*entity.Prospect, error) {
	query := r.DB.Dialect.Rebind(`SELECT ` + prospectColumns + ` FROM prospects WHERE id = ?`)
	p, err := scanProspect(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProspectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prospect: %w", err)
	}
	return p, nil
}

func (r *ProspectRepository) List(ctx context.Context, f entity.ProspectFilter) ([]*entity.Prospect, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.Industry != "" {
		where = append(where, "industry = ?")
		args = append(args, f.Industry)
	}

	query := `SELECT ` + prospectColumns + ` FROM prospects`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	defer rows.Close()

	out := []*entity.Prospect{}
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes only the fields set in patch and always moves updated_at forward.
func (r *ProspectRepository) Update(ctx context.Context, id string, patch entity.ProspectPatch) (*entity.Prospect, error) {
	d := r.DB.Dialect

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	current, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != current.Email {
		exists, err := r.existsByEmail(ctx, tx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, entity.ErrEmailAlreadyExists
		}
	}

	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.CompanyName != nil {
		set("company_name", *patch.CompanyName)
	}
	if patch.ContactName != nil {
		set("contact_name", *patch.ContactName)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Phone != nil {
		set("phone", nullString(*patch.Phone))
	}
	if patch.Industry != nil {
		set("industry", nullString(*patch.Industry))
	}
	if patch.CompanySize != nil {
		set("company_size", nullString(*patch.CompanySize))
	}
	if patch.Website != nil {
		set("website", nullString(*patch.Website))
	}
	if patch.Notes != nil {
		set("notes", nullString(*patch.Notes))
	}
	if patch.Tags != nil {
		tags, err := json.Marshal(nonNilTags(*patch.Tags))
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		set("tags", string(tags))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.Score != nil {
		set("score", *patch.Score)
	}
	if patch.ClearLastContact {
		set("last_contact", nil)
	} else if patch.LastContact != nil {
		set("last_contact", d.Time(storedTime(*patch.LastContact)))
	}

	updated := r.now()
	if !updated.After(current.UpdatedAt) {
		updated = current.UpdatedAt.Add(time.Microsecond)
	}
	set("updated_at", d.Time(updated))
	args = append(args, id)

	query := d.Rebind(`UPDATE prospects SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if d.IsUniqueViolation(err) {
			return nil, entity.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("update prospect: %w", err)
	}

	p, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return p, nil
}

// Delete removes the prospect together with its interactions.
func (r *ProspectRepository) Delete(ctx context.Context, id string) error {
	d := r.DB.Dialect

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM interactions WHERE prospect_id = ?`), id); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}

	res, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM prospects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete prospect: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete prospect: %w", err)
	}
	if n == 0 {
		return entity.ErrProspectNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (r *ProspectRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsByEmail(ctx, r.DB, email, "")
}

func (r *ProspectRepository) existsByEmail(ctx context.Context, q querier, email, exceptID string) (bool, error) {
	var n int
	query := r.DB.Dialect.Rebind(`SELECT COUNT(*) FROM prospects WHERE email = ? AND id <> ?`)
	if err := q.QueryRowContext(ctx, query, email, exceptID).Scan(&n); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (*entity.Prospect, error) {
	var (
		p           entity.Prospect
		phone       sql.NullString
		industry    sql.NullString
		companySize sql.NullString
		website     sql.NullString
		notes       sql.NullString
		tags        string
		status      string
		priority    string
		score       sql.NullFloat64
		createdAt   dbTime
		updatedAt   dbTime
		lastContact dbTime
	)
	err := row.Scan(
		&p.ID,
		&p.CompanyName,
		&p.ContactName,
		&p.Email,
		&phone,
		&industry,
		&companySize,
		&website,
		&notes,
		&tags,
		&status,
		&priority,
		&score,
		&createdAt,
		&updatedAt,
		&lastContact,
	)
	if err != nil {
		return nil, err
	}

	p.Phone = phone.String
	p.Industry = industry.String
	p.CompanySize = companySize.String
	p.Website = website.String
	p.Notes = notes.String
	p.Status = entity.Status(status)
	p.Priority = entity.Priority(priority)
	if score.Valid {
		v := score.Float64
		p.Score = &v
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	p.LastContact = lastContact.Ptr()

	p.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
