package model

import (
	"encoding/json"
	"sort"
)

// The browsable entities inline their Extra map into the JSON encoding, so
// columns added at runtime behave like declared fields everywhere a record
// is serialized: the local store, the remote mirror, and the API surface.
// The reverse also holds: a declared field whose key is absent from the
// incoming JSON stays absent on re-serialization, so dropping a declared
// column removes it for good instead of resurfacing it as a zero value.

// marshalWithExtra encodes v, overlays the extra keys it does not declare,
// and removes the dropped ones. Declared fields always win over extras; an
// extra key never overwrites one.
func marshalWithExtra(v any, extra map[string]any, dropped []string) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 && len(dropped) == 0 {
		return base, nil
	}

	var m map[string]any
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, ok := m[k]; !ok {
			m[k] = val
		}
	}
	for _, k := range dropped {
		delete(m, k)
	}
	return json.Marshal(m)
}

// splitExtra partitions the keys of data against the encoding of v: extra
// holds the keys v does not declare, dropped the declared keys data lacks
// (and which would otherwise re-materialize as zero values). Both are nil
// when empty.
func splitExtra(data []byte, v any) (extra map[string]any, dropped []string, err error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, nil, err
	}
	known, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	var knownKeys map[string]any
	if err := json.Unmarshal(known, &knownKeys); err != nil {
		return nil, nil, err
	}

	for k, val := range all {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = val
	}
	for k := range knownKeys {
		// The id key is the record's identity, filled in server-side when a
		// create request omits it. It is never suppressed.
		if k == "id" {
			continue
		}
		if _, ok := all[k]; !ok {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return extra, dropped, nil
}

func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return marshalWithExtra(alias(u), u.Extra, u.dropped)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = User(a)
	extra, dropped, err := splitExtra(data, a)
	if err != nil {
		return err
	}
	u.Extra = extra
	u.dropped = dropped
	return nil
}

func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	return marshalWithExtra(alias(p), p.Extra, p.dropped)
}

func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Project(a)
	extra, dropped, err := splitExtra(data, a)
	if err != nil {
		return err
	}
	p.Extra = extra
	p.dropped = dropped
	return nil
}

func (g Gem) MarshalJSON() ([]byte, error) {
	type alias Gem
	return marshalWithExtra(alias(g), g.Extra, g.dropped)
}

func (g *Gem) UnmarshalJSON(data []byte) error {
	type alias Gem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*g = Gem(a)
	extra, dropped, err := splitExtra(data, a)
	if err != nil {
		return err
	}
	g.Extra = extra
	g.dropped = dropped
	return nil
}

func (t Tool) MarshalJSON() ([]byte, error) {
	type alias Tool
	return marshalWithExtra(alias(t), t.Extra, t.dropped)
}

func (t *Tool) UnmarshalJSON(data []byte) error {
	type alias Tool
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = Tool(a)
	extra, dropped, err := splitExtra(data, a)
	if err != nil {
		return err
	}
	t.Extra = extra
	t.dropped = dropped
	return nil
}
