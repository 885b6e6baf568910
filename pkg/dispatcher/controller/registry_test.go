package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
)

func noop(context.Context, httpmsg.Request, httpmsg.Response) (any, error) {
	return nil, nil
}

type pointerController struct{}

func (*pointerController) Action(string) (Action, bool) { return nil, false }

func TestActionMethod(t *testing.T) {
	assert.Equal(t, "indexAction", ActionMethod("index"))
	assert.Equal(t, "fakeAction", ActionMethod("fake"))
}

func TestActions(t *testing.T) {
	c := Actions{
		"indexAction": noop,
		"nilAction":   nil,
	}

	fn, ok := c.Action("indexAction")
	assert.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = c.Action("index")
	assert.False(t, ok, "lookup is by method name, not action name")

	_, ok = c.Action("nilAction")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"indexAction", "nilAction"}, c.Methods())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	blog := Actions{"indexAction": noop}

	require.NoError(t, r.Register("Blog", blog))
	assert.True(t, r.Has("Blog"))
	assert.Equal(t, 1, r.Len())

	got, err := r.Get("Blog")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%p", blog), fmt.Sprintf("%p", got))
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()

	c, err := r.Get("Missing")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownController)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Missing", nf.Name)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name       string
		controller Controller
		key        string
	}{
		{name: "empty name", controller: Actions{"indexAction": noop}, key: ""},
		{name: "nil interface", controller: nil, key: "Blog"},
		{name: "nil map", controller: Actions(nil), key: "Blog"},
		{name: "typed nil pointer", controller: (*pointerController)(nil), key: "Blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.key, tt.controller)
			assert.ErrorIs(t, err, ErrInvalidRegistration)
		})
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.MustRegister("", Actions{"indexAction": noop})
	})
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("News", Actions{"indexAction": noop})
	r.MustRegister("Blog", Actions{"indexAction": noop})

	assert.Equal(t, []string{"Blog", "News"}, r.Names())
}

func TestRegistry_Merge(t *testing.T) {
	target := NewRegistry()
	target.MustRegister("Blog", Actions{"indexAction": noop})

	source := NewRegistry()
	replacement := Actions{"indexAction": noop, "showAction": noop}
	source.MustRegister("Blog", replacement)
	source.MustRegister("News", Actions{"indexAction": noop})

	target.Merge(source)
	target.Merge(nil)
	target.Merge(target)

	assert.Equal(t, []string{"Blog", "News"}, target.Names())
	got, err := target.Get("Blog")
	require.NoError(t, err)
	_, ok := got.Action("showAction")
	assert.True(t, ok)

	// source is unaffected
	assert.Equal(t, 2, source.Len())
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(Actions(nil)))
	assert.True(t, IsNil((*pointerController)(nil)))
	assert.False(t, IsNil(&pointerController{}))
	assert.False(t, IsNil(Actions{}))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("Blog", Actions{"indexAction": noop})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if id%5 == 0 {
				_ = r.Register(fmt.Sprintf("C%d", id), Actions{"indexAction": noop})
				return
			}
			_, _ = r.Get("Blog")
			_ = r.Names()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 11, r.Len())
}
