package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/foodorder/internal/models"
)

func (s *Store) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	res, err := s.DB.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if isUniqueViolation(err, "categories.name") {
		return nil, ErrCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM categories WHERE id = ?`, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	ok, err := s.CategoryExists(ctx, item.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	if item.Image == "" {
		item.Image = models.DefaultImage
	}

	query := `
		INSERT INTO menu_items (name, description, price, image, category_id)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := s.DB.ExecContext(ctx, query, item.Name, item.Description, item.Price, item.Image, item.CategoryID)
	if isForeignKeyViolation(err) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	item.ID, err = res.LastInsertId()
	return err
}

const menuItemSelect = `
	SELECT m.id, m.name, m.description, m.price, m.image, m.category_id, c.name
	FROM menu_items m
	JOIN categories c ON c.id = m.category_id
`

func scanMenuItem(row interface{ Scan(...any) error }) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Image, &m.CategoryID, &m.CategoryName); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := scanMenuItem(s.DB.QueryRowContext(ctx, menuItemSelect+` WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.DB.QueryContext(ctx, menuItemSelect+` ORDER BY c.name, m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// MenuSection is a category with its items, as shown on the menu page.
type MenuSection struct {
	Category models.Category
	Items    []models.MenuItem
}

// GetMenu groups every item under its category. Empty categories are kept.
func (s *Store) GetMenu(ctx context.Context) ([]MenuSection, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]models.MenuItem, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	sections := make([]MenuSection, 0, len(categories))
	for _, c := range categories {
		sections = append(sections, MenuSection{Category: c, Items: byCategory[c.ID]})
	}
	return sections, nil
}
