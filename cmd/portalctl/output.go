package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

// table writes tab-separated rows as aligned columns.
func table(out io.Writer, header []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// applyFields decodes key=value pairs into a form struct through its JSON
// tags, so the CLI accepts the same field names as the portal.
func applyFields(fields map[string]string, target interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// explain turns a portal error into the line a user should see.
func explain(err error) error {
	var fe validation.FieldErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fe):
		return fmt.Errorf("validation failed: %s", fe.Error())
	case gateway.IsUnauthorized(err):
		return fmt.Errorf("backend rejected the stored session (%s); run `portalctl login`", gateway.MessageOf(err))
	}
	return err
}
