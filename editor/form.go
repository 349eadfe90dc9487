package editor

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/GlintPay/gds/settings"
	"github.com/GlintPay/gds/utils"
	"github.com/mitchellh/mapstructure"
)

// Form Holds the values being edited. Every change, notified or not, is mirrored into the Helper.
type Form struct {
	mu        sync.Mutex
	value     settings.GlobalSettings
	helper    *Helper
	listeners map[int]func(settings.GlobalSettings)
	nextID    int
}

func NewForm(helper *Helper) *Form {
	if helper == nil {
		helper = NewHelper()
	}
	return &Form{helper: helper, listeners: map[int]func(settings.GlobalSettings){}}
}

func (f *Form) Helper() *Helper {
	return f.helper
}

func (f *Form) Value() settings.GlobalSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value.Copy()
}

// Set Replaces all values and notifies listeners
func (f *Form) Set(s settings.GlobalSettings) {
	f.replace(s)
	f.notify()
}

// SetSilently Replaces all values without notifying listeners
func (f *Form) SetSilently(s settings.GlobalSettings) {
	f.replace(s)
}

// Reset Clears all values without notifying listeners
func (f *Form) Reset() {
	f.replace(settings.GlobalSettings{})
}

// Patch Binds loosely typed values by field name, e.g. from flags or query parameters.
// Strings are accepted for numbers and booleans, and a comma separated string for the namespace fallback list.
func (f *Form) Patch(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	target := f.Value()
	if _, ok := values["namespaceFallbackList"]; ok {
		// decoding into an existing slice would keep its tail
		target.NamespaceFallbackList = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToNamespaceListHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		Result:           &target,
	})
	if err != nil {
		return err
	}

	if e := decoder.Decode(values); e != nil {
		return fmt.Errorf("cannot bind settings: %w", e)
	}

	f.Set(target)
	return nil
}

// OnChange Registers a listener for notified changes. The returned func removes it.
func (f *Form) OnChange(fn func(settings.GlobalSettings)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *Form) detachAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = map[int]func(settings.GlobalSettings){}
}

func (f *Form) replace(s settings.GlobalSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.value = s.Copy()
	f.helper.mirror(s)
}

func (f *Form) notify() {
	f.mu.Lock()
	value := f.value.Copy()
	listeners := make([]func(settings.GlobalSettings), 0, len(f.listeners))
	for id := 0; id < f.nextID; id++ {
		if fn, ok := f.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(value.Copy())
	}
}

func stringToNamespaceListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	return utils.SplitNonEmpty(data.(string)), nil
}
