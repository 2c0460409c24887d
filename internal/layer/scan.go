package layer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ivlev/framewall/internal/source"
)

// Scan enumerates src, collects the frames that pass validation and
// builds the layer set. The collection result is returned even when no
// layer could be built, so callers can report what was rejected.
func Scan(ctx context.Context, src source.Source, naming source.Naming, workers int, log hclog.Logger) (*Set, *source.Result, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, nil, err
	}
	res, err := source.Collect(ctx, entries, naming, workers, log)
	if err != nil {
		return nil, nil, fmt.Errorf("collect frames: %w", err)
	}
	set, err := Build(res.Frames, res.Size)
	if err != nil {
		return nil, res, err
	}
	return set, res, nil
}
