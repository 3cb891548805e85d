package registry

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field that distinguishes a field omitted from the
// request body (leave unchanged) from an explicit null (clear it).
type Optional struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs for keys present in the body, so Present records
// exactly the omitted-vs-sent distinction.
func (o *Optional) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Set builds a present field carrying a value.
func Set(v string) Optional {
	return Optional{Present: true, Value: &v}
}

// Clear builds a present field carrying an explicit null.
func Clear() Optional {
	return Optional{Present: true}
}

// Patch is a partial slot update.
type Patch struct {
	Label    Optional `json:"label"`
	Filename Optional `json:"filename"`
	Icon     Optional `json:"icon"`
}

func (p Patch) apply(s *Slot) {
	if p.Filename.Present {
		s.Filename = p.Filename.Value
	}
	if p.Icon.Present {
		s.Icon = p.Icon.Value
	}
	if p.Label.Present {
		if p.Label.Value == nil {
			// A null label falls back to the default rather than
			// leaving the slot unlabeled.
			s.Label = DefaultLabel(s.ID)
		} else {
			s.Label = *p.Label.Value
		}
	}
}
