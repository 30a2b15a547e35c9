package rdbms

import (
	"fmt"

	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms/shared"
	"golang.org/x/net/context"
)

// SqlQuery executes sqltext and sends the column names followed by each row to the SqlResultHandler i.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, i shared.SqlResultHandler) error {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("error fetching columns: %w", err)
	}
	log.Trace("query returned columns: ", cols)
	// Scan the values dynamically.
	lenCols := len(cols)
	scanPtrs := make([]interface{}, lenCols, lenCols)
	scanVals := make([]interface{}, lenCols, lenCols)
	for idx := 0; idx < lenCols; idx++ { // for each column...
		scanPtrs[idx] = &scanVals[idx]
	}
	// Build and send the header.
	header := make([]interface{}, lenCols, lenCols)
	for idx := range cols {
		header[idx] = cols[idx]
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		select { // quit if asked to, else continue...
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		row := make([]interface{}, lenCols, lenCols)
		copy(row, scanVals)
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// RowCollector is a SqlResultHandler that keeps the header and all rows in memory.
type RowCollector struct {
	Header []string
	Rows   [][]interface{}
}

func (r *RowCollector) HandleHeader(i []interface{}) error {
	r.Header = make([]string, len(i))
	for idx, v := range i {
		r.Header[idx] = fmt.Sprint(v)
	}
	return nil
}

func (r *RowCollector) HandleRow(i []interface{}) error {
	r.Rows = append(r.Rows, i)
	return nil
}

// SqlFetchAll executes sqltext and returns all rows.
func SqlFetchAll(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string) (*RowCollector, error) {
	c := &RowCollector{}
	if err := SqlQuery(ctx, log, db, sqltext, c); err != nil {
		return nil, err
	}
	log.Debug("fetched ", len(c.Rows), " rows")
	return c, nil
}
