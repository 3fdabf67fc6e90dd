package render

import (
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/soypat/fusion"
)

// Material is an entry of a neutronics description: the files holding a
// component's geometry and the material it is made of.
type Material struct {
	Material    string    `json:"material"`
	STPFilename string    `json:"stp_filename"`
	STLFilename string    `json:"stl_filename"`
	ID          uuid.UUID `json:"id"`
}

// ComponentID returns a stable identifier for the named component.
func ComponentID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("fusion/component/"+name))
}

// WriteNeutronics writes the description as an indented JSON list.
func WriteNeutronics(w io.Writer, materials []Material) error {
	for i, m := range materials {
		if m.Material == "" {
			return fusion.Errorf(fusion.ErrConfig, "neutronics entry %d (%s) has no material tag", i, m.STLFilename)
		}
	}
	if materials == nil {
		materials = []Material{}
	}
	b, err := json.MarshalIndent(materials, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// CreateNeutronics writes the description to a JSON file at path.
func CreateNeutronics(path string, materials []Material) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := WriteNeutronics(fp, materials); err != nil {
		return err
	}
	return fp.Close()
}

// ReadNeutronics decodes a description written by WriteNeutronics.
func ReadNeutronics(r io.Reader) ([]Material, error) {
	var materials []Material
	if err := json.NewDecoder(r).Decode(&materials); err != nil {
		return nil, err
	}
	return materials, nil
}
