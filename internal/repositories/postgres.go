package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapWriteError translates constraint failures into store kinds and wraps
// everything else with the action for context.
func mapWriteError(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrNotFound
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", content.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

// sortColumn maps a whitelisted sort field onto its videos column. The
// pagination policy has already rejected unknown fields, so the default
// branch only guards against future drift.
func sortColumn(field string) string {
	switch field {
	case content.SortFieldViews:
		return "v.views"
	case content.SortFieldDuration:
		return "v.duration_seconds"
	default:
		return "v.created_at"
	}
}

func sortDirection(dir string) string {
	if dir == content.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// likeEscape neutralizes LIKE metacharacters so user input matches as a
// literal substring. Queries using it must declare ESCAPE '\'.
func likeEscape(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func ownerSummary(id, username, avatar string) models.OwnerSummary {
	return models.OwnerSummary{ID: id, Username: username, Avatar: avatar}
}
