package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"heartwellness/fitness-cms/internal/repository"
)

// rawListColumn names a serialized list column and the label column shown in reports.
type rawListColumn struct {
	kind, table, column, label string
}

var rawListColumns = []rawListColumn{
	{"article.keywords", "articles", "keywords", "title"},
	{"article.images", "articles", "images", "title"},
	{"exercise.generated_keywords", "exercises", "generated_keywords", "name"},
}

type sqlRawListRepository struct {
	db *gorm.DB
}

func NewRawListRepository(db *gorm.DB) repository.RawListRepository {
	return &sqlRawListRepository{db: db}
}

func (r *sqlRawListRepository) ListRaw(ctx context.Context) ([]repository.RawList, error) {
	var out []repository.RawList
	for _, col := range rawListColumns {
		rows, err := r.db.WithContext(ctx).Table(col.table).
			Select(fmt.Sprintf("id, %s, %s", col.label, col.column)).
			Order("id").
			Rows()
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var (
				id    int64
				label sql.NullString
				raw   sql.NullString
			)
			if err := rows.Scan(&id, &label, &raw); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, repository.RawList{Kind: col.kind, ID: id, Label: label.String, Raw: raw.String})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ResetRaw overwrites the blob with an empty list without touching updated_at.
func (r *sqlRawListRepository) ResetRaw(ctx context.Context, item repository.RawList) error {
	for _, col := range rawListColumns {
		if col.kind != item.Kind {
			continue
		}
		res := r.db.WithContext(ctx).Table(col.table).Where("id = ?", item.ID).UpdateColumn(col.column, "[]")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	}
	return fmt.Errorf("%w: unknown list kind %q", repository.ErrValidation, item.Kind)
}
