package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

type petsRepo struct {
	q querier
}

func (r *petsRepo) CreatePet(ctx context.Context, p domain.Pet) (int64, error) {
	var categoryID, categoryName any
	if p.Category != nil {
		categoryID = p.Category.ID
		categoryName = p.Category.Name
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO pets (name, category_id, category_name, status)
		VALUES (?, ?, ?, ?)`,
		p.Name, categoryID, categoryName, p.Status,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := r.insertPhotosAndTags(ctx, id, p); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *petsRepo) GetPetByID(ctx context.Context, id int64) (domain.Pet, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, category_id, category_name, status, created_at, updated_at
		FROM pets WHERE id = ?`, id)

	pet, err := scanPet(row)
	if err != nil {
		return domain.Pet{}, mapNotFound(err)
	}
	if err := r.loadPhotosAndTags(ctx, &pet); err != nil {
		return domain.Pet{}, err
	}
	return pet, nil
}

func (r *petsRepo) UpdatePet(ctx context.Context, p domain.Pet) error {
	var categoryID, categoryName any
	if p.Category != nil {
		categoryID = p.Category.ID
		categoryName = p.Category.Name
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, category_id = ?, category_name = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, categoryID, categoryName, p.Status, p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	// Replace photos and tags wholesale
	if _, err := r.q.ExecContext(ctx, `DELETE FROM pet_photos WHERE pet_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM pet_tags WHERE pet_id = ?`, p.ID); err != nil {
		return err
	}
	return r.insertPhotosAndTags(ctx, p.ID, p)
}

func (r *petsRepo) UpdatePetNameStatus(ctx context.Context, id int64, name, status string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE pets
		SET name = COALESCE(NULLIF(?, ''), name),
		    status = COALESCE(NULLIF(?, ''), status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		name, status, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *petsRepo) DeletePet(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *petsRepo) FindPetsByStatus(ctx context.Context, statuses []string) ([]domain.Pet, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, category_id, category_name, status, created_at, updated_at
		FROM pets WHERE status IN (`+placeholders(len(statuses))+`)
		ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	return r.collectPets(ctx, rows)
}

func (r *petsRepo) FindPetsByTags(ctx context.Context, tags []string) ([]domain.Pet, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, p.category_id, p.category_name, p.status, p.created_at, p.updated_at
		FROM pets p
		JOIN pet_tags t ON t.pet_id = p.id
		WHERE t.tag_name IN (`+placeholders(len(tags))+`)
		ORDER BY p.id`, args...)
	if err != nil {
		return nil, err
	}
	return r.collectPets(ctx, rows)
}

func (r *petsRepo) CountByStatus(ctx context.Context) (map[string]int32, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM pets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int32)
	for rows.Next() {
		var status string
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *petsRepo) insertPhotosAndTags(ctx context.Context, petID int64, p domain.Pet) error {
	for i, url := range p.PhotoURLs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO pet_photos (pet_id, position, url) VALUES (?, ?, ?)`,
			petID, i, url,
		); err != nil {
			return err
		}
	}
	for _, tag := range p.Tags {
		if _, err := r.q.ExecContext(ctx, `
			INSERT OR IGNORE INTO pet_tags (pet_id, tag_id, tag_name) VALUES (?, ?, ?)`,
			petID, tag.ID, tag.Name,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *petsRepo) loadPhotosAndTags(ctx context.Context, pet *domain.Pet) error {
	photoRows, err := r.q.QueryContext(ctx, `
		SELECT url FROM pet_photos WHERE pet_id = ? ORDER BY position`, pet.ID)
	if err != nil {
		return err
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var url string
		if err := photoRows.Scan(&url); err != nil {
			return err
		}
		pet.PhotoURLs = append(pet.PhotoURLs, url)
	}
	if err := photoRows.Err(); err != nil {
		return err
	}

	tagRows, err := r.q.QueryContext(ctx, `
		SELECT tag_id, tag_name FROM pet_tags WHERE pet_id = ? ORDER BY tag_name`, pet.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag domain.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name); err != nil {
			return err
		}
		pet.Tags = append(pet.Tags, tag)
	}
	return tagRows.Err()
}

func (r *petsRepo) collectPets(ctx context.Context, rows *sql.Rows) ([]domain.Pet, error) {
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pets {
		if err := r.loadPhotosAndTags(ctx, &pets[i]); err != nil {
			return nil, err
		}
	}
	return pets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (domain.Pet, error) {
	var (
		pet          domain.Pet
		categoryID   sql.NullInt64
		categoryName sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(&pet.ID, &pet.Name, &categoryID, &categoryName, &pet.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.Pet{}, err
	}
	if categoryID.Valid || categoryName.Valid {
		pet.Category = &domain.Category{
			ID:   categoryID.Int64,
			Name: categoryName.String,
		}
	}
	pet.CreatedAt = createdAt
	pet.UpdatedAt = updatedAt
	return pet, nil
}
