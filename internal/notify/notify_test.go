package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopNotify(t *testing.T) {
	var got []string
	d := &Desktop{notify: func(title, body string) error {
		got = append(got, title, body)
		return nil
	}}
	d.Notify("develop > success ✅", "Main")
	assert.Equal(t, []string{"develop > success ✅", "Main"}, got)

	failing := &Desktop{notify: func(string, string) error { return errors.New("no dbus") }}
	assert.NotPanics(t, func() { failing.Notify("t", "b") })
}
