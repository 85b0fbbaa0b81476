package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
)

// whereClause accumulates AND-ed conditions with positional arguments.
// Each condition holds one %d verb for its placeholder number.
type whereClause struct {
	conds []string
	args  []interface{}
}

func (w *whereClause) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders after the where arguments
func (w *whereClause) page(p models.PageRequest) (string, []interface{}) {
	n := p.Normalize()
	args := append(append([]interface{}{}, w.args...), n.Limit, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)+1, len(w.args)+2), args
}

// requireRow turns an UPDATE/DELETE that touched nothing into NotFound
func requireRow(result sql.Result, notFound string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return classify(err, "read affected rows", "")
	}
	if n == 0 {
		return apperror.NewNotFound(notFound)
	}
	return nil
}
