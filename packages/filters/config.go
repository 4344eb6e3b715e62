package filters

import (
	"github.com/pkg/errors"

	"github.com/artenus-engine/Artenus-GO/packages/config"
	"github.com/artenus-engine/Artenus-GO/packages/render"
)

// FromConfig builds filters in the order they are listed.
func FromConfig(list []config.Filter) ([]render.PostProcessingFilter, error) {
	out := make([]render.PostProcessingFilter, 0, len(list))
	for i, fc := range list {
		switch fc.Type {
		case config.FilterBlur:
			out = append(out, NewBlurFilter(fc.Amount))
		case config.FilterGhosting:
			out = append(out, NewGhostingFilter(fc.Amount))
		case config.FilterTint:
			c, err := fc.RGBA()
			if err != nil {
				return nil, errors.Wrapf(err, "filter %d", i)
			}
			out = append(out, NewTintFilter(c))
		default:
			return nil, errors.Errorf("filter %d: unknown type %q", i, fc.Type)
		}
	}
	return out, nil
}
