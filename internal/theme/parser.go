package theme

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/example/vodmark/internal/style"
)

var colorType = reflect.TypeOf(style.Color{})

// Parse reads a theme definition. Each line is `Key: colour`; colours use
// any form style.ParseColor accepts. Unknown keys are ignored.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by case-insensitive name.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	v := reflect.ValueOf(t).Elem()
	f := v.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, key) })
	if !f.IsValid() || f.Type() != colorType {
		return nil
	}
	c, err := style.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	f.Set(reflect.ValueOf(c))
	return nil
}

// Fields returns every colour field as name/hex pairs in declaration order.
func (t *Theme) Fields() [][2]string {
	v := reflect.ValueOf(t).Elem()
	typ := v.Type()
	var out [][2]string
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != colorType {
			continue
		}
		c := v.Field(i).Interface().(style.Color)
		out = append(out, [2]string{typ.Field(i).Name, c.Hex()})
	}
	return out
}
