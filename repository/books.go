package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emzola/bookreviews/data"
)

type books interface {
	CreateBook(ctx context.Context, book *data.Book) error
	GetBook(ctx context.Context, bookID int64) (*data.Book, error)
	GetAllBooks(ctx context.Context, query data.BookQuery) ([]*data.Book, data.Metadata, error)
	UpdateBook(ctx context.Context, book *data.Book) error
	DeleteBook(ctx context.Context, bookID int64) error
}

const bookColumns = `books.id, books.title, books.author, books.description, books.genre, books.year, books.cover_url,
		books.user_id, users.name, books.created_at, books.updated_at, books.version`

// bookFilter is shared by the count and page queries of GetAllBooks.
const bookFilter = `
		WHERE ($1::text = '' OR books.title ILIKE '%' || $1 || '%' ESCAPE '\' OR books.author ILIKE '%' || $1 || '%' ESCAPE '\')
		AND ($2::text = '' OR books.genre = $2)
		AND ($3::bigint = 0 OR books.user_id = $3)`

func scanBook(row scanner) (*data.Book, error) {
	var book data.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Genre,
		&book.Year,
		&book.CoverURL,
		&book.AddedBy.ID,
		&book.AddedBy.Name,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.Version,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook creates a book record.
func (r *repository) CreateBook(ctx context.Context, book *data.Book) error {
	query := `
		INSERT INTO books (user_id, title, author, description, genre, year, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, version`
	args := []any{book.AddedBy.ID, book.Title, book.Author, book.Description, book.Genre, book.Year, book.CoverURL}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt, &book.Version)
	if err != nil {
		switch {
		case pqErrorCode(err) == codeForeignKeyViolation:
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// GetBook retrieves a book record along with its creator's name.
func (r *repository) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + bookColumns + `
		FROM books
		INNER JOIN users ON books.user_id = users.id
		WHERE books.id = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetAllBooks retrieves a paginated list of book records.
// Records can be searched by title or author, filtered by genre or creator, and sorted.
func (r *repository) GetAllBooks(ctx context.Context, q data.BookQuery) ([]*data.Book, data.Metadata, error) {
	args := []any{escapeLike(q.Search), q.Genre, q.AddedBy}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	totalRecords := 0
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM books`+bookFilter, args...).Scan(&totalRecords)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		INNER JOIN users ON books.user_id = users.id
		%s
		ORDER BY %s %s, books.id %s
		LIMIT $4 OFFSET $5`,
		bookColumns, bookFilter, bookSortExpression(q.Filters.SortColumn()), q.Filters.SortDirection(), q.Filters.SortDirection(),
	)
	args = append(args, q.Filters.Limit(), q.Filters.Offset())
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, q.Filters.Page, q.Filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a book record.
func (r *repository) UpdateBook(ctx context.Context, book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, description = $3, genre = $4, year = $5, cover_url = $6, updated_at = NOW(), version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING updated_at, version`
	args := []any{
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.Year,
		book.CoverURL,
		book.ID,
		book.Version,
	}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.UpdatedAt, &book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record together with all of its reviews. Both
// deletes run in one transaction so readers never see a book without its
// reviews being removed as well.
func (r *repository) DeleteBook(ctx context.Context, bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE book_id = $1`, bookID)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return tx.Commit()
}

// bookSortExpression maps a sort column from data.BookSortSafeList to SQL.
func bookSortExpression(column string) string {
	switch column {
	case "year":
		return "books.year"
	case "rating":
		return `COALESCE((SELECT ROUND(AVG(reviews.rating)::numeric, 1) FROM reviews WHERE reviews.book_id = books.id), 0)`
	default:
		return "books.created_at"
	}
}

// escapeLike escapes the ILIKE wildcards in a search term so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
