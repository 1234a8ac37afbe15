package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/fairway/internal/domain/model"
)

// WriteCSV writes one header line then one line per shot.
func WriteCSV(w io.Writer, s *model.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range s.Shots {
		if err := cw.Write(cells(&s.Shots[i])); err != nil {
			return fmt.Errorf("failed to write shot %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
