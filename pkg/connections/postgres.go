package connections

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// identifiers are written into the query text, so only plain (optionally qualified) names pass.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type postgresFindPayload struct {
	Table   string         `json:"table" validate:"required"`
	Columns []string       `json:"columns"`
	Where   map[string]any `json:"where"`
	OrderBy []string       `json:"orderBy"`
	Limit   int            `json:"limit" validate:"min=0"`
}

type postgresInsertPayload struct {
	Table     string         `json:"table" validate:"required"`
	Values    map[string]any `json:"values" validate:"required,min=1"`
	Returning []string       `json:"returning"`
}

// PostgresFind selects rows. Where entries are equality filters joined with AND.
var PostgresFind = NewResolver(true, false, func(ctx context.Context, request Request, payload postgresFindPayload) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Connections.PostgresFind")
	defer span.End()

	query, args, err := buildFind(payload)
	if err != nil {
		return nil, err
	}

	db, err := request.Clients.Postgres(ctx, request.Connection.ConnectionID)
	if err != nil {
		return nil, err
	}

	return queryRows(ctx, db, query, args)
})

// PostgresInsert inserts one row. With returning the inserted columns are returned, otherwise the affected count.
var PostgresInsert = NewResolver(false, true, func(ctx context.Context, request Request, payload postgresInsertPayload) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Connections.PostgresInsert")
	defer span.End()

	query, args, err := buildInsert(payload)
	if err != nil {
		return nil, err
	}

	db, err := request.Clients.Postgres(ctx, request.Connection.ConnectionID)
	if err != nil {
		return nil, err
	}

	if len(payload.Returning) > 0 {
		return queryRows(ctx, db, query, args)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", payload.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	return map[string]any{"rowsAffected": affected}, nil
})

func buildFind(payload postgresFindPayload) (string, []any, error) {
	if err := checkIdentifiers(append([]string{payload.Table}, payload.Columns...)...); err != nil {
		return "", nil, err
	}

	columns := payload.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...).From(payload.Table)

	keys := make([]string, 0, len(payload.Where))
	for key := range payload.Where {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if err := checkIdentifiers(keys...); err != nil {
		return "", nil, err
	}
	for _, key := range keys {
		sb.Where(sb.Equal(key, payload.Where[key]))
	}

	for _, order := range payload.OrderBy {
		column, direction := splitOrder(order)
		if err := checkIdentifiers(column); err != nil {
			return "", nil, err
		}
		sb.OrderBy(column + direction)
	}

	if payload.Limit > 0 {
		sb.Limit(payload.Limit)
	}

	query, args := sb.Build()
	return query, args, nil
}

func buildInsert(payload postgresInsertPayload) (string, []any, error) {
	columns := make([]string, 0, len(payload.Values))
	for column := range payload.Values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	if err := checkIdentifiers(append(append([]string{payload.Table}, columns...), payload.Returning...)...); err != nil {
		return "", nil, err
	}

	values := make([]any, 0, len(columns))
	for _, column := range columns {
		values = append(values, payload.Values[column])
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(payload.Table).Cols(columns...).Values(values...)
	if len(payload.Returning) > 0 {
		ib.Returning(payload.Returning...)
	}

	query, args := ib.Build()
	return query, args, nil
}

// splitOrder accepts "column" and "column desc".
func splitOrder(order string) (string, string) {
	fields := strings.Fields(order)
	if len(fields) == 2 && strings.EqualFold(fields[1], "desc") {
		return fields[0], " DESC"
	}
	if len(fields) == 2 && strings.EqualFold(fields[1], "asc") {
		return fields[0], " ASC"
	}
	return order, ""
}

func checkIdentifiers(identifiers ...string) error {
	for _, identifier := range identifiers {
		if !identifierPattern.MatchString(identifier) {
			return fmt.Errorf("invalid identifier %q", identifier)
		}
	}
	return nil
}

func queryRows(ctx context.Context, db Querier, query string, args []any) ([]any, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for column, value := range row {
			if raw, ok := value.([]byte); ok {
				row[column] = string(raw)
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
