// Package seed loads a YAML hierarchy description and creates it through the asset service.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	objdomain "asset-hierarchy/internal/object/domain"
)

// SampleHotel is the built-in development hierarchy (the Hotel Grand sample).
//
//go:embed hotel.yaml
var SampleHotel []byte

// File is the root of a seed document.
type File struct {
	Objects []Object `yaml:"objects"`
}

// Object is one object with its datapoints and children.
type Object struct {
	Name            string         `yaml:"name"`
	Type            string         `yaml:"type"`
	LocationDetails map[string]any `yaml:"location_details"`
	Datapoints      []Datapoint    `yaml:"datapoints"`
	Children        []Object       `yaml:"children"`
}

// Datapoint is a datapoint owned by the enclosing object.
type Datapoint struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Value   string  `yaml:"value"`
	Unit    *string `yaml:"unit"`
	IsFresh *bool   `yaml:"is_fresh"`
}

// Target is the part of the asset service the seeder writes through.
type Target interface {
	ListObjects(ctx context.Context, f objdomain.ListFilter) ([]*objdomain.Object, error)
	CreateObject(ctx context.Context, o *objdomain.Object) error
	CreateDatapoint(ctx context.Context, d *dpdomain.Datapoint) error
	AssociateDatapoint(ctx context.Context, datapointID, objectID int64) error
}

// Result counts what Apply created.
type Result struct {
	Objects    int
	Datapoints int
	Skipped    bool
}

// Parse decodes a seed document and checks that every object has a name and a type.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(f.Objects) == 0 {
		return nil, fmt.Errorf("parse seed: no objects")
	}
	for _, o := range f.Objects {
		if err := o.validate(o.Name); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func (o Object) validate(path string) error {
	if strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.Type) == "" {
		return fmt.Errorf("parse seed: object %q needs a name and a type", path)
	}
	for _, d := range o.Datapoints {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("parse seed: datapoint under %q needs a name", path)
		}
	}
	for _, c := range o.Children {
		if err := c.validate(path + "." + c.Name); err != nil {
			return err
		}
	}
	return nil
}

// Apply creates the document's hierarchy top-down. When any root object already exists and force is
// false it does nothing and reports Skipped.
func Apply(ctx context.Context, t Target, f *File, force bool) (Result, error) {
	var res Result
	if !force {
		roots, err := t.ListObjects(ctx, objdomain.ListFilter{Limit: 1})
		if err != nil {
			return res, fmt.Errorf("check existing roots: %w", err)
		}
		if len(roots) > 0 {
			res.Skipped = true
			return res, nil
		}
	}
	for _, o := range f.Objects {
		if err := create(ctx, t, o, nil, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func create(ctx context.Context, t Target, o Object, parentID *int64, res *Result) error {
	obj := &objdomain.Object{
		Name:            o.Name,
		Type:            objdomain.Type(o.Type),
		LocationDetails: o.LocationDetails,
		ParentID:        parentID,
	}
	if err := t.CreateObject(ctx, obj); err != nil {
		return fmt.Errorf("create object %q: %w", o.Name, err)
	}
	res.Objects++
	for _, d := range o.Datapoints {
		dp := &dpdomain.Datapoint{Name: d.Name, Value: d.Value, Unit: d.Unit, IsFresh: true}
		if d.Type != "" {
			typ := d.Type
			dp.Type = &typ
		}
		if d.IsFresh != nil {
			dp.IsFresh = *d.IsFresh
		}
		if err := t.CreateDatapoint(ctx, dp); err != nil {
			return fmt.Errorf("create datapoint %q of %q: %w", d.Name, o.Name, err)
		}
		if err := t.AssociateDatapoint(ctx, dp.ID, obj.ID); err != nil {
			return fmt.Errorf("associate datapoint %q with %q: %w", d.Name, o.Name, err)
		}
		res.Datapoints++
	}
	id := obj.ID
	for _, c := range o.Children {
		if err := create(ctx, t, c, &id, res); err != nil {
			return err
		}
	}
	return nil
}
