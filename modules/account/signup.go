package account

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/pkg/address"
	"github.com/dmitrymomot/carematch/pkg/form"
	"github.com/dmitrymomot/carematch/svc/profile"
	"github.com/dmitrymomot/carematch/svc/signup"
)

type signupHandlers struct {
	svc SignupService
}

// register handles POST /signup/{role}.
func (h *signupHandlers) register(ctx handler.Context, req SignupRequest) handler.Response {
	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return handler.Error(handler.ErrNotFound)
	}

	p, err := h.svc.Register(ctx, role, req.Record())
	if err != nil {
		return handler.Error(err)
	}

	return handler.JSON(p.Public(), handler.WithJSONStatus(http.StatusCreated))
}

// validate handles POST /signup/{role}/validate and returns the visible
// errors. An empty object means every visible field is valid.
func (h *signupHandlers) validate(ctx handler.Context, req ValidateRequest) handler.Response {
	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return handler.Error(handler.ErrNotFound)
	}

	var touched map[string]bool
	if req.Touched != nil {
		touched = make(map[string]bool, len(req.Touched))
		for _, name := range req.Touched {
			touched[name] = true
		}
	}

	res, err := h.svc.Validate(role, req.Values, touched)
	if err != nil {
		return handler.Error(err)
	}

	return handler.JSON(res)
}

// live handles POST /signup/{role}/live. It replays one keystroke through a
// form: the field's formatter turns Previous and the raw input into the
// committed value, then the deferred blur marks it touched and revalidates.
func (h *signupHandlers) live(ctx handler.Context, req LiveRequest) handler.Response {
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Error(handler.ErrBadRequest)
	}

	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return handler.Error(handler.ErrNotFound)
	}
	schema, err := signup.SchemaFor(role)
	if err != nil {
		return handler.Error(err)
	}

	values := maps.Clone(req.Values)
	if values == nil {
		values = map[string]string{}
	}
	raw := values[req.Field]
	values[req.Field] = req.Previous

	queue := &form.Queue{}
	f := form.New(schema,
		form.WithScheduler(queue),
		form.WithValues(values),
		form.WithTouched(req.Touched...),
	)
	if schema.Has(req.Field) {
		f.Input(req.Field, raw)
		queue.Flush()
	}

	committed := f.Values()
	touchedFields := f.TouchedFields()
	touched := make(map[string]bool, len(touchedFields))
	for _, name := range touchedFields {
		touched[name] = true
	}

	res := f.Validate()
	signup.ConfirmPasswords(res, committed)
	visible := res.Visible(touched)

	errs := make(map[string]string, len(schema.Fields()))
	for _, name := range schema.Fields() {
		errs[name] = visible.Get(name)
	}

	return handler.Signals(LiveSignals{
		Values:  committed,
		Touched: touchedFields,
		Errors:  errs,
	})
}

// listStates handles GET /states.
func listStates(handler.Context, struct{}) handler.Response {
	return handler.JSON(map[string]any{
		"country": address.Country,
		"states":  address.States(),
	})
}

// parseFormRole parses a role sent in a request body. Unlike path roles,
// a bad value is a field error.
func parseFormRole(s string) (profile.Role, error) {
	role, err := profile.ParseRole(s)
	if err != nil {
		return "", fieldError(fieldRole, invalidRoleMessage)
	}
	return role, nil
}
