package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errPersonNotFound = errors.New("person not found")

// Person is the slice of a user the notification subscribers need for
// addressing and rendering.
type Person struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Directory resolves recipients and lead context for outbound notifications.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// ListManagers returns every user with the manager role.
func (d *Directory) ListManagers(ctx context.Context) ([]Person, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT id, email, name FROM users WHERE role = 'manager' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Email, &p.Name); err != nil {
			return nil, fmt.Errorf("scan manager: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// GetPerson looks up a single user by id.
func (d *Directory) GetPerson(ctx context.Context, id uuid.UUID) (Person, error) {
	var p Person
	err := d.pool.QueryRow(ctx,
		`SELECT id, email, name FROM users WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Person{}, errPersonNotFound
	}
	if err != nil {
		return Person{}, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// GetBuyerName returns the buyer name recorded on a lead.
func (d *Directory) GetBuyerName(ctx context.Context, leadID uuid.UUID) (string, error) {
	var name string
	err := d.pool.QueryRow(ctx,
		`SELECT buyer_name FROM leads WHERE id = $1`, leadID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get buyer name: %w", err)
	}
	return name, nil
}
