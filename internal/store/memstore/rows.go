package memstore

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memRow defers errors to Scan the way pgx rows do.
type memRow struct {
	vals []any
	err  error
}

func (r *memRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(dest, r.vals)
}

type memRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *memRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.data) {
		return fmt.Errorf("memstore: Scan called without Next")
	}
	return scanInto(dest, r.data[r.pos-1])
}

func (r *memRows) Close()                                       {}
func (r *memRows) Err() error                                   { return r.err }
func (r *memRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *memRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *memRows) Values() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.data) {
		return nil, fmt.Errorf("memstore: Values called without Next")
	}
	return r.data[r.pos-1], nil
}
func (r *memRows) RawValues() [][]byte { return nil }
func (r *memRows) Conn() *pgx.Conn     { return nil }

func scanInto(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("memstore: scan expects %d destinations, got %d", len(vals), len(dest))
	}
	for i, v := range vals {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("memstore: column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, val any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}
	dv = dv.Elem()

	if val == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return nil
	}
	sv := reflect.ValueOf(val)
	if sv.Kind() == reflect.Pointer && sv.IsNil() {
		dv.Set(reflect.Zero(dv.Type()))
		return nil
	}

	switch {
	case sv.Type().AssignableTo(dv.Type()):
		dv.Set(sv)
	case sv.Kind() == reflect.Pointer && sv.Elem().Type().AssignableTo(dv.Type()):
		dv.Set(sv.Elem())
	case dv.Kind() == reflect.Pointer && sv.Type().AssignableTo(dv.Type().Elem()):
		p := reflect.New(dv.Type().Elem())
		p.Elem().Set(sv)
		dv.Set(p)
	case isNumeric(sv.Kind()) && isNumeric(dv.Kind()):
		dv.Set(sv.Convert(dv.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %T", val, dest)
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
