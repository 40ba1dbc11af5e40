package gazetteer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//go:embed data/district_coordinates.json
var defaultDataset []byte

// Place is a canonical district with its coordinates and aliases.
type Place struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Aliases   []string `json:"aliases"`
}

// Gazetteer is the read-only table of places loaded at startup.
// Places keep the order in which they appear in the dataset.
type Gazetteer struct {
	places []Place
	byName map[string]int
}

// Default loads the dataset bundled with the binary.
func Default() (*Gazetteer, error) {
	return Load(bytes.NewReader(defaultDataset))
}

// LoadFile loads a dataset from path.
func LoadFile(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening gazetteer dataset %q", path)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a dataset of the form
//
//	{"districts": {"<name>": {"latitude": .., "longitude": .., "aliases": [..]}}}
//
// and validates it.
func Load(r io.Reader) (*Gazetteer, error) {
	var doc struct {
		Districts orderedPlaces `json:"districts"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding gazetteer dataset")
	}
	if len(doc.Districts) == 0 {
		return nil, errors.New("gazetteer dataset has no districts")
	}

	g := &Gazetteer{
		places: doc.Districts,
		byName: make(map[string]int, len(doc.Districts)),
	}
	for i, p := range g.places {
		if p.Name == "" {
			return nil, errors.Errorf("district #%d has an empty name", i)
		}
		if _, exists := g.byName[p.Name]; exists {
			return nil, errors.Errorf("district %q is defined twice", p.Name)
		}
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return nil, errors.Errorf("district %q has out of range coordinates (%f, %f)", p.Name, p.Latitude, p.Longitude)
		}
		if p.Aliases == nil {
			g.places[i].Aliases = []string{}
		}
		g.byName[p.Name] = i
	}
	return g, nil
}

// Names returns canonical names in dataset order.
func (g *Gazetteer) Names() []string {
	return lo.Map(g.places, func(p Place, _ int) string { return p.Name })
}

// Places returns a copy of all places in dataset order.
func (g *Gazetteer) Places() []Place {
	return lo.Map(g.places, func(p Place, _ int) Place {
		p.Aliases = slices.Clone(p.Aliases)
		return p
	})
}

// Lookup returns the place with the given canonical name.
func (g *Gazetteer) Lookup(name string) (Place, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Place{}, false
	}
	return g.places[i], true
}

// orderedPlaces decodes a JSON object into a slice, keeping key order.
type orderedPlaces []Place

func (o *orderedPlaces) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.WithStack(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Errorf("districts must be an object, got %v", tok)
	}

	var places []Place
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.WithStack(err)
		}
		name, _ := tok.(string)

		var info struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
			Aliases   []string `json:"aliases"`
		}
		if err := dec.Decode(&info); err != nil {
			return errors.Wrapf(err, "decoding district %q", name)
		}
		if info.Latitude == nil || info.Longitude == nil {
			return errors.Errorf("district %q is missing coordinates", name)
		}
		places = append(places, Place{
			Name:      name,
			Latitude:  *info.Latitude,
			Longitude: *info.Longitude,
			Aliases:   info.Aliases,
		})
	}
	if _, err := dec.Token(); err != nil {
		return errors.WithStack(err)
	}

	*o = places
	return nil
}
