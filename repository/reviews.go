package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emzola/bookreviews/data"
	"github.com/lib/pq"
)

type reviews interface {
	CreateReview(ctx context.Context, review *data.Review) error
	GetReview(ctx context.Context, reviewID int64) (*data.Review, error)
	UpdateReview(ctx context.Context, review *data.Review) error
	DeleteReview(ctx context.Context, reviewID int64) error
	ReviewExistsForUser(ctx context.Context, bookID, userID int64) (bool, error)
	GetReviewsForBook(ctx context.Context, bookID int64) ([]*data.Review, error)
	GetAllReviewsForBook(ctx context.Context, bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetAllReviewsForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetRatingsForBook(ctx context.Context, bookID int64) ([]int, error)
	GetRatingsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]int, error)
}

const reviewColumns = `reviews.id, reviews.book_id, books.title, books.author, reviews.user_id, users.name,
		reviews.rating, reviews.review_text, reviews.created_at, reviews.updated_at, reviews.version`

const reviewJoins = `
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id`

func scanReview(row scanner) (*data.Review, error) {
	var review data.Review
	var book data.BookRef
	err := row.Scan(
		&review.ID,
		&review.BookID,
		&book.Title,
		&book.Author,
		&review.User.ID,
		&review.User.Name,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)
	if err != nil {
		return nil, err
	}
	book.ID = review.BookID
	review.Book = &book
	return &review, nil
}

// CreateReview creates a review record for a book. The unique index on
// (book_id, user_id) turns a concurrent second review into ErrDuplicateRecord.
func (r *repository) CreateReview(ctx context.Context, review *data.Review) error {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, review_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`
	args := []any{review.BookID, review.User.ID, review.Rating, review.ReviewText}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &review.Version)
	if err != nil {
		switch pqErrorCode(err) {
		case codeUniqueViolation:
			return ErrDuplicateRecord
		case codeForeignKeyViolation:
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ReviewExistsForUser checks whether a user has already reviewed a book.
func (r *repository) ReviewExistsForUser(ctx context.Context, bookID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE book_id = $1 AND user_id = $2)`
	var exists bool
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID, userID).Scan(&exists)
	return exists, err
}

// GetReview retrieves a review record.
func (r *repository) GetReview(ctx context.Context, reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews` + reviewJoins + `
		WHERE reviews.id = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	review, err := scanReview(r.db.QueryRowContext(ctx, query, reviewID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview updates a review record.
func (r *repository) UpdateReview(ctx context.Context, review *data.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, review_text = $2, updated_at = NOW(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []any{review.Rating, review.ReviewText, review.ID, review.Version}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt, &review.Version)
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

// DeleteReview deletes a review record.
func (r *repository) DeleteReview(ctx context.Context, reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
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
	return nil
}

// GetReviewsForBook retrieves every review of a book, newest first.
func (r *repository) GetReviewsForBook(ctx context.Context, bookID int64) ([]*data.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews` + reviewJoins + `
		WHERE reviews.book_id = $1
		ORDER BY reviews.created_at DESC, reviews.id DESC`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := []*data.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetAllReviewsForBook retrieves a paginated list of a book's reviews.
func (r *repository) GetAllReviewsForBook(ctx context.Context, bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	return r.listReviews(ctx, "reviews.book_id", bookID, filters)
}

// GetAllReviewsForUser retrieves a paginated list of the reviews a user wrote.
func (r *repository) GetAllReviewsForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	return r.listReviews(ctx, "reviews.user_id", userID, filters)
}

// listReviews pages through the reviews whose column equals id. column is
// never user input.
func (r *repository) listReviews(ctx context.Context, column string, id int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM reviews %s
		WHERE %s = $1
		ORDER BY reviews.%s %s, reviews.id DESC
		LIMIT $2 OFFSET $3`,
		reviewColumns, reviewJoins, column, filters.SortColumn(), filters.SortDirection(),
	)
	args := []any{id, filters.Limit(), filters.Offset()}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		var book data.BookRef
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&book.Title,
			&book.Author,
			&review.User.ID,
			&review.User.Name,
			&review.Rating,
			&review.ReviewText,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		book.ID = review.BookID
		review.Book = &book
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	if len(reviews) == 0 && filters.Page > 1 {
		// count(*) OVER() yields nothing for a page past the end.
		err = r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM reviews WHERE %s = $1`, column), id).Scan(&totalRecords)
		if err != nil {
			return nil, data.Metadata{}, err
		}
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

// GetRatingsForBook returns the rating of every review of a book.
func (r *repository) GetRatingsForBook(ctx context.Context, bookID int64) ([]int, error) {
	query := `
		SELECT rating
		FROM reviews
		WHERE book_id = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ratings := []int{}
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// GetRatingsForBooks returns the ratings of several books in a single query,
// keyed by book id. Books without reviews are absent from the map.
func (r *repository) GetRatingsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]int, error) {
	ratings := make(map[int64][]int, len(bookIDs))
	if len(bookIDs) == 0 {
		return ratings, nil
	}
	query := `
		SELECT book_id, rating
		FROM reviews
		WHERE book_id = ANY($1)`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, pq.Array(bookIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var bookID int64
		var rating int
		if err := rows.Scan(&bookID, &rating); err != nil {
			return nil, err
		}
		ratings[bookID] = append(ratings[bookID], rating)
	}
	return ratings, rows.Err()
}
