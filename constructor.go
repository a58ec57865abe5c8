package leaf

import (
	"fmt"
	"reflect"
)

var errorInterface = reflect.TypeFor[error]()

// Param describes one constructor parameter: the declared type and the key it
// is resolved under.
type Param struct {
	Type reflect.Type
	Key  Key
}

// expected returns the type a resolved argument is checked against. Name keys
// resolve untyped; assignability is still verified before the call.
func (p Param) expected() reflect.Type {
	if p.Key.IsName() {
		return nil
	}
	return p.Type
}

// Constructor is a construction plan: a function together with the keys its
// parameters are resolved under.
//
// Supported signatures:
//   - func() T
//   - func() (T, error)
//   - func(Dep1, Dep2, ...) T
//   - func(Dep1, Dep2, ...) (T, error)
type Constructor struct {
	fn           reflect.Value
	out          reflect.Type
	params       []Param
	returnsError bool
	inject       bool
	implicit     bool
}

// ConstructorOption configures a constructor at registration time.
type ConstructorOption func(*Constructor) error

// Inject marks the constructor to use when a type has more than one.
func Inject() ConstructorOption {
	return func(c *Constructor) error {
		c.inject = true
		return nil
	}
}

// Qualify resolves the parameter at index under key instead of its declared
// type. Parameters qualified with a name key are resolved untyped.
//
// Example:
//
//	catalog.Register(NewReportService, leaf.Qualify(0, leaf.Qualifier[PrimaryDB]()))
//	catalog.Register(NewMailer, leaf.Qualify(1, leaf.Named("smtp.host")))
func Qualify(index int, key Key) ConstructorOption {
	return func(c *Constructor) error {
		if key.IsZero() {
			return fmt.Errorf("qualifier for parameter %d cannot be the zero key", index)
		}
		if index < 0 || index >= len(c.params) {
			return fmt.Errorf("parameter index %d out of range, constructor takes %d", index, len(c.params))
		}
		c.params[index].Key = key
		return nil
	}
}

// NewConstructor analyzes fn and applies the options.
func NewConstructor(fn any, opts ...ConstructorOption) (*Constructor, error) {
	if fn == nil {
		return nil, &InvalidConstructorError{Reason: "constructor cannot be nil"}
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, &InvalidConstructorError{Reason: fmt.Sprintf("constructor must be a function, got %v", fnType)}
	}
	if fnValue.IsNil() {
		return nil, &InvalidConstructorError{Reason: "constructor cannot be a nil function"}
	}
	if fnType.IsVariadic() {
		return nil, &InvalidConstructorError{Reason: fmt.Sprintf("variadic constructors are not supported: %v", fnType)}
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, &InvalidConstructorError{
			Reason: fmt.Sprintf("constructor must return (T) or (T, error), got %d return values", numOut),
		}
	}

	returnsError := false
	if numOut == 2 {
		if fnType.Out(1) != errorInterface {
			return nil, &InvalidConstructorError{
				Reason: fmt.Sprintf("constructor's second return value must be error, got %v", fnType.Out(1)),
			}
		}
		returnsError = true
	}

	params := make([]Param, fnType.NumIn())
	for i := range params {
		paramType := fnType.In(i)
		params[i] = Param{Type: paramType, Key: KeyOf(paramType)}
	}

	c := &Constructor{
		fn:           fnValue,
		out:          fnType.Out(0),
		params:       params,
		returnsError: returnsError,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, &InvalidConstructorError{Reason: err.Error()}
		}
	}

	return c, nil
}

// implicitConstructor builds the zero value of t: a new struct for pointer to
// struct types, the zero struct otherwise.
func implicitConstructor(t reflect.Type) *Constructor {
	return &Constructor{out: t, implicit: true}
}

// Type returns the type the constructor produces.
func (c *Constructor) Type() reflect.Type {
	return c.out
}

// Params returns a copy of the parameter plan.
func (c *Constructor) Params() []Param {
	params := make([]Param, len(c.params))
	copy(params, c.params)
	return params
}

// IsInject reports whether the constructor was marked with Inject.
func (c *Constructor) IsInject() bool {
	return c.inject
}

// String describes the constructor for error messages.
func (c *Constructor) String() string {
	if c.implicit {
		return fmt.Sprintf("zero value of %v", c.out)
	}
	return c.fn.Type().String()
}

// invoke calls the constructor with already-resolved arguments. Argument
// values must line up with the parameter plan.
func (c *Constructor) invoke(args []any) (instance any, err error) {
	if c.implicit {
		if c.out.Kind() == reflect.Ptr {
			return reflect.New(c.out.Elem()).Interface(), nil
		}
		return reflect.Zero(c.out).Interface(), nil
	}

	in := make([]reflect.Value, len(c.params))
	for i, param := range c.params {
		if args[i] == nil {
			if !nillable(param.Type) {
				return nil, fmt.Errorf("%w: parameter %d of %v wants %v, resolved nil under %s",
					ErrTypeMismatch, i, c, param.Type, param.Key)
			}
			in[i] = reflect.Zero(param.Type)
			continue
		}

		value := reflect.ValueOf(args[i])
		if !value.Type().AssignableTo(param.Type) {
			return nil, fmt.Errorf("%w: parameter %d of %v wants %v, resolved %v under %s",
				ErrTypeMismatch, i, c, param.Type, value.Type(), param.Key)
		}
		in[i] = value
	}

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%w: %v panicked: %v", ErrConstructorFailed, c, r)
		}
	}()

	results := c.fn.Call(in)

	if c.returnsError && !results[1].IsNil() {
		return nil, fmt.Errorf("%w: %v: %w", ErrConstructorFailed, c, results[1].Interface().(error))
	}

	return results[0].Interface(), nil
}
