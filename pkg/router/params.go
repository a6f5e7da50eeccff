package router

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Params are the named parameters extracted from a matched path.
type Params map[string]string

// Get returns the named parameter or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Decode populates a struct from the parameters. Fields are matched by
// their `param` tag and strings are converted to the field type:
//
//	type userParams struct {
//	    ID int `param:"id"`
//	}
//	var up userParams
//	err := params.Decode(&up)
func (p Params) Decode(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "param",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("router: decode params: %w", err)
	}
	in := make(map[string]any, len(p))
	for k, v := range p {
		in[k] = v
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("router: decode params: %w", err)
	}
	return nil
}
