package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// PropertyRepository defines the interface for property data access.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveEvaluation overwrites the property's evaluation. Concurrent writers
	// are last-write-wins.
	SaveEvaluation(ctx context.Context, id uuid.UUID, eval *models.PropertyEvaluation) error
	// GetEvaluation returns the stored evaluation, or nil if the property has
	// never been evaluated. A missing property yields apperrors.ErrNotFound.
	GetEvaluation(ctx context.Context, id uuid.UUID) (*models.PropertyEvaluation, error)
}

type propertyRepository struct{}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository() PropertyRepository {
	return &propertyRepository{}
}

const propertyColumns = `id, host_id, name, location, description, amenities, price_per_night, ai_evaluation, created_at, updated_at`

const defaultListLimit = 50

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	amenities, err := jsonbParam(property.Amenities)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO properties (id, host_id, name, location, description, amenities, price_per_night, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		property.ID,
		property.HostID,
		property.Name,
		property.Location,
		property.Description,
		amenities,
		property.PricePerNight,
		property.CreatedAt,
		property.UpdatedAt,
	)
	return wrapError("create property", err)
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	property, err := scanProperty(row)
	if err != nil {
		return nil, wrapError("get property", err)
	}
	return property, nil
}

// List returns properties ordered newest first, optionally filtered by a
// case-insensitive location substring.
func (r *propertyRepository) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE ($1 = '' OR location ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := q.Query(ctx, query, filter.Location, limit, filter.Offset)
	if err != nil {
		return nil, wrapError("list properties", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func (r *propertyRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties WHERE host_id = $1
		ORDER BY created_at DESC, id`, hostID)
	if err != nil {
		return nil, wrapError("list host properties", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	property.UpdatedAt = time.Now().UTC()
	amenities, err := jsonbParam(property.Amenities)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `
		UPDATE properties
		SET name = $1, location = $2, description = $3, amenities = $4, price_per_night = $5, updated_at = $6
		WHERE id = $7`,
		property.Name,
		property.Location,
		property.Description,
		amenities,
		property.PricePerNight,
		property.UpdatedAt,
		property.ID,
	)
	if err != nil {
		return wrapError("update property", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update property", errNoRows)
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return wrapError("delete property", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("delete property", errNoRows)
	}
	return nil
}

func (r *propertyRepository) SaveEvaluation(ctx context.Context, id uuid.UUID, eval *models.PropertyEvaluation) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	evalJSON, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	result, err := q.Exec(ctx, `
		UPDATE properties SET ai_evaluation = $1, ai_evaluated_at = $2
		WHERE id = $3`,
		evalJSON, eval.GeneratedAt, id)
	if err != nil {
		return wrapError("save evaluation", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("save evaluation", errNoRows)
	}
	return nil
}

func (r *propertyRepository) GetEvaluation(ctx context.Context, id uuid.UUID) (*models.PropertyEvaluation, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	var evalJSON []byte
	err = q.QueryRow(ctx, `SELECT ai_evaluation FROM properties WHERE id = $1`, id).Scan(&evalJSON)
	if err != nil {
		return nil, wrapError("get evaluation", err)
	}

	return decodeEvaluation(evalJSON)
}

func decodeEvaluation(raw []byte) (*models.PropertyEvaluation, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var eval models.PropertyEvaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return &eval, nil
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	var amenitiesJSON, evalJSON []byte

	err := row.Scan(
		&p.ID,
		&p.HostID,
		&p.Name,
		&p.Location,
		&p.Description,
		&amenitiesJSON,
		&p.PricePerNight,
		&evalJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.Amenities, err = scanStrings(amenitiesJSON); err != nil {
		return nil, err
	}
	if p.Evaluation, err = decodeEvaluation(evalJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

type rowsIterator interface {
	rowScanner
	Next() bool
	Err() error
}

func collectProperties(rows rowsIterator) ([]*models.Property, error) {
	properties := make([]*models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}
	return properties, nil
}
