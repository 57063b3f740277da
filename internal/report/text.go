package report

import (
	"encoding/json"
	"fmt"
	"io"

	"orderstats/internal/model"
)

// WriteText prints the seven result lines. Averages have two decimals.
func WriteText(w io.Writer, res model.Result) error {
	lines := []struct {
		label string
		value string
	}{
		{"Most expensive order", res.MostExpensiveOrder},
		{"Order with most items", res.OrderWithMostItems},
		{"Busiest date", res.BusiestDate},
		{"Most active user", res.MostActiveUser},
		{"Top spender", res.TopSpender},
		{"Average order price", fmt.Sprintf("%.2f", res.AverageOrderPrice)},
		{"Average item price", fmt.Sprintf("%.2f", res.AverageItemPrice)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the result record as indented JSON.
func WriteJSON(w io.Writer, res model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&res)
}

// WriteError prints err as a single line.
func WriteError(w io.Writer, err error) error {
	_, e := fmt.Fprintf(w, "Error: %v\n", err)
	return e
}
