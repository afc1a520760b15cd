// Package roster loads player records from a YAML or JSON document:
//
//	players:
//	  - name: alice
//	    features: {win_ratio: 0.61}
//
// JSON is parsed by the YAML parser as a subset.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/matchbalance/internal/domain/model"
	"github.com/okian/matchbalance/pkg/logger"
)

type document struct {
	Players []model.PlayerRecord `koanf:"players"`
}

// Load reads the roster document at path. Records must have a non-empty
// name and at least one feature; roster size is left to the partitioner.
func Load(ctx context.Context, path string) ([]model.PlayerRecord, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	for i, rec := range doc.Players {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidRecord, i)
		}
		if len(rec.Features) == 0 {
			return nil, fmt.Errorf("%w: player %q has no features", ErrInvalidRecord, rec.Name)
		}
	}

	logger.Get().Named("roster").Debug(ctx, "roster loaded",
		logger.String("path", path),
		logger.Int("players", len(doc.Players)),
	)
	return doc.Players, nil
}
