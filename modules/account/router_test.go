package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/modules/account"
	"github.com/dmitrymomot/carematch/pkg/file"
	"github.com/dmitrymomot/carematch/pkg/httpserver"
	"github.com/dmitrymomot/carematch/svc/photo"
	"github.com/dmitrymomot/carematch/svc/profile"
	"github.com/dmitrymomot/carematch/svc/signup"
)

const cdn = "https://cdn.example.com/"

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type fakePresigner struct{}

func (fakePresigner) PresignPut(_ context.Context, path, _ string, _ time.Duration) (string, error) {
	return cdn + path + "?X-Amz-Signature=abc", nil
}

type testApp struct {
	store  *profile.MemoryStore
	router http.Handler
}

func newApp(t *testing.T, photoOpts ...photo.Option) *testApp {
	t.Helper()

	store := profile.NewMemoryStore()
	storage, err := file.NewLocalStorage(t.TempDir(), cdn)
	require.NoError(t, err)

	return &testApp{
		store: store,
		router: account.Router(account.RouterOptions{
			Signup:    signup.NewService(store, signup.WithBcryptCost(bcrypt.MinCost)),
			Directory: profile.NewDirectory(store),
			Photos:    photo.NewService(storage, store, photoOpts...),
		}),
	}
}

func (a *testApp) do(t *testing.T, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doJSON(t *testing.T, method, target string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return a.do(t, method, target, "application/json", body)
}

func (a *testApp) register(t *testing.T, role string, form account.SignupForm) map[string]any {
	t.Helper()
	rec := a.doJSON(t, http.MethodPost, "/signup/"+role, form)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec).Data.(map[string]any)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func parentForm() account.SignupForm {
	return account.SignupForm{
		DisplayName: "Jane Doe",
		FirstName:   "Tommy",
		LastName:    "Doe",
		Email:       "Jane@Example.com",
		PasswordOne: "Secret1!",
		PasswordTwo: "Secret1!",
		Street:      "12 Main Street",
		City:        "Austin",
		State:       "Texas",
		Pincode:     "73301",
		PhoneNumber: "5551234567",
		DOB:         "1990-01-01",
	}
}

func nannyForm() account.SignupForm {
	f := parentForm()
	f.Email = "nanny@example.com"
	f.Experience = "12.5"
	f.SSN = "123-45-6789"
	f.Bio = strings.Repeat("b", 120)
	return f
}

func photoBody(t *testing.T, role, filename string, content []byte) ([]byte, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("role", role))
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body.Bytes(), w.FormDataContentType()
}

func TestRouter_Signup(t *testing.T) {
	t.Parallel()

	t.Run("registers a parent", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		data := app.register(t, "parent", parentForm())
		assert.Equal(t, "parent", data["role"])
		assert.Equal(t, "jane@example.com", data["email"])
		assert.NotContains(t, data, "passwordHash")
		assert.NotContains(t, data, "ssn")
	})

	t.Run("registers a nanny with a masked ssn", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		data := app.register(t, "Nanny", nannyForm())
		assert.Equal(t, "nanny", data["role"])
		assert.Equal(t, "***-**-6789", data["ssn"])
		assert.Equal(t, "12.5", data["experience"])
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		form := parentForm()
		form.Pincode = "12a45"
		form.PasswordTwo = "Other1!x"

		rec := app.doJSON(t, http.MethodPost, "/signup/parent", form)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decode(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "validation_error", body.Error.Code)
		assert.Equal(t, map[string][]string{
			signup.FieldPincode:     {"Pincode must be a number"},
			signup.FieldPasswordTwo: {signup.PasswordMismatchMessage},
		}, body.Error.Details)
	})

	t.Run("nanny fields are required for nannies only", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		rec := app.doJSON(t, http.MethodPost, "/signup/nanny", parentForm())
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		details := decode(t, rec).Error.Details
		assert.Equal(t, []string{"Experience is required"}, details[signup.FieldExperience])
		assert.Equal(t, []string{"SSN is required"}, details[signup.FieldSSN])
		assert.Equal(t, []string{"Bio is required"}, details[signup.FieldBio])
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		app.register(t, "parent", parentForm())
		rec := app.doJSON(t, http.MethodPost, "/signup/parent", parentForm())
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{signup.EmailTakenMessage}, decode(t, rec).Error.Details[signup.FieldEmail])
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		rec := app.doJSON(t, http.MethodPost, "/signup/admin", parentForm())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		rec := app.do(t, http.MethodPost, "/signup/parent", "application/json", []byte(`{"admin":true}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Validate(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	tests := []struct {
		name string
		req  map[string]any
		want map[string]any
	}{
		{
			name: "only touched fields",
			req: map[string]any{
				"values":  map[string]string{"displayName": "Jo", "pincode": "1"},
				"touched": []string{"displayName"},
			},
			want: map[string]any{"displayName": "Name must be atleast 3 cahracters"},
		},
		{
			name: "touched and valid",
			req: map[string]any{
				"values":  map[string]string{"displayName": "John"},
				"touched": []string{"displayName"},
			},
			want: map[string]any{},
		},
		{
			name: "password confirmation",
			req: map[string]any{
				"values":  map[string]string{"passwordOne": "Secret1!", "passwordTwo": "Secret2!"},
				"touched": []string{"passwordTwo"},
			},
			want: map[string]any{"passwordTwo": signup.PasswordMismatchMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.doJSON(t, http.MethodPost, "/signup/parent/validate", tt.req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode(t, rec).Data)
		})
	}

	t.Run("without touched every field is shown", func(t *testing.T) {
		rec := app.doJSON(t, http.MethodPost, "/signup/nanny/validate", map[string]any{"values": map[string]string{}})
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec).Data.(map[string]any)
		assert.Len(t, data, len(signup.NannySchema().Fields()))
		assert.Equal(t, "Bio is required", data["bio"])
	})
}

func TestRouter_Live(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	live := func(t *testing.T, signals map[string]any) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(signals)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/signup/nanny/live", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("formats ssn and touches the field", func(t *testing.T) {
		rec := live(t, map[string]any{
			"values":   map[string]string{"ssn": "1234567890"},
			"field":    "ssn",
			"previous": "",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, `"ssn":"123-45-6789"`)
		assert.Contains(t, body, `"touched":["ssn"]`)
		assert.Contains(t, body, `"bio":""`)
	})

	t.Run("phone keeps the previous value when too long", func(t *testing.T) {
		rec := live(t, map[string]any{
			"values":   map[string]string{"phoneNumber": "55512345678"},
			"field":    "phoneNumber",
			"previous": "5551234567",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"phoneNumber":"5551234567"`)
	})

	t.Run("shows errors of touched fields only", func(t *testing.T) {
		rec := live(t, map[string]any{
			"values":   map[string]string{"displayName": "Jo"},
			"field":    "displayName",
			"previous": "J",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, `"displayName":"Name must be atleast 3 cahracters"`)
		assert.Contains(t, body, `"email":""`)
	})

	t.Run("plain requests are rejected", func(t *testing.T) {
		rec := app.doJSON(t, http.MethodPost, "/signup/nanny/live", map[string]any{"field": "ssn"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_States(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	rec := app.do(t, http.MethodGet, "/states", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "United States", data["country"])
	assert.Len(t, data["states"], 50)
}

func TestRouter_Profiles(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	created := app.register(t, "nanny", nannyForm())

	t.Run("lookup", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/profiles/"+created["id"].(string), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec).Data.(map[string]any)
		assert.Equal(t, "nanny", data["role"])
		assert.Equal(t, "***-**-6789", data["ssn"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/profiles/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/profiles/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_PhotoUpload(t *testing.T) {
	t.Parallel()
	app := newApp(t)

	id := app.register(t, "parent", parentForm())["id"].(string)
	target := "/profiles/" + id + "/photo"

	t.Run("stores the photo", func(t *testing.T) {
		body, ct := photoBody(t, "parent", "me.png", pngHeader)
		rec := app.do(t, http.MethodPost, target, ct, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		want := cdn + "profiles/" + id + "/photo"
		assert.Equal(t, map[string]any{"url": want}, decode(t, rec).Data)

		p, err := app.store.Get(context.Background(), uuid.MustParse(id), profile.RoleParent)
		require.NoError(t, err)
		assert.Equal(t, want, p.Image)
	})

	tests := []struct {
		name    string
		role    string
		file    string
		content []byte
		field   string
		message string
	}{
		{"empty file", "parent", "me.png", nil, "photo", "File is empty. Please choose a file."},
		{"wrong type", "parent", "me.gif", []byte("GIF89a not really"), "photo", "Invalid file type. Please choose a PNG, JPEG, or JPG file."},
		{"bad role", "admin", "me.png", pngHeader, "role", "Role must be parent or nanny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := photoBody(t, tt.role, tt.file, tt.content)
			rec := app.do(t, http.MethodPost, target, ct, body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, []string{tt.message}, decode(t, rec).Error.Details[tt.field])
		})
	}

	t.Run("unknown profile", func(t *testing.T) {
		body, ct := photoBody(t, "parent", "me.png", pngHeader)
		rec := app.do(t, http.MethodPost, "/profiles/"+uuid.NewString()+"/photo", ct, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_PhotoPresign(t *testing.T) {
	t.Parallel()

	t.Run("presign and confirm", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, photo.WithPresigner(fakePresigner{}))
		id := app.register(t, "nanny", nannyForm())["id"].(string)

		rec := app.do(t, http.MethodGet, "/profiles/"+id+"/photo/presign", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec).Data.(map[string]any)
		assert.Equal(t, "PUT", data["method"])
		uploadURL := data["uploadUrl"].(string)
		assert.Contains(t, uploadURL, "X-Amz-Signature")

		rec = app.doJSON(t, http.MethodPut, "/profiles/"+id+"/photo", map[string]string{
			"role": "nanny",
			"url":  uploadURL,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]any{"url": data["publicUrl"]}, decode(t, rec).Data)
	})

	t.Run("foreign url", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, photo.WithPresigner(fakePresigner{}))
		id := app.register(t, "parent", parentForm())["id"].(string)

		rec := app.doJSON(t, http.MethodPut, "/profiles/"+id+"/photo", map[string]string{
			"role": "parent",
			"url":  "https://evil.example.com/x.png",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"Invalid image URL."}, decode(t, rec).Error.Details["url"])
	})

	t.Run("direct uploads not configured", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		rec := app.do(t, http.MethodGet, "/profiles/"+uuid.NewString()+"/photo/presign", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

type brokenPhotos struct{}

func (brokenPhotos) Presign(context.Context, uuid.UUID) (*photo.PresignedUpload, error) {
	return nil, errors.Join(photo.ErrUploadFailed, file.ErrAccessDenied)
}

func (brokenPhotos) Confirm(context.Context, uuid.UUID, profile.Role, string) (string, error) {
	return "", errors.Join(photo.ErrUploadFailed, errors.New("db down"))
}

func (brokenPhotos) Upload(context.Context, uuid.UUID, profile.Role, *multipart.FileHeader) (string, error) {
	return "", errors.Join(photo.ErrUploadFailed, errors.New("disk full"))
}

func TestRouter_PhotoFailures(t *testing.T) {
	t.Parallel()

	router := account.Router(account.RouterOptions{Photos: brokenPhotos{}})
	target := "/profiles/" + uuid.NewString() + "/photo"

	body, ct := photoBody(t, "parent", "me.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "upload_failed", resp.Error.Code)
	assert.Equal(t, "Error uploading image. Please try again.", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), "disk full")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target+"/presign", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		router := account.Router(account.RouterOptions{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing dependency", func(t *testing.T) {
		t.Parallel()
		router := account.Router(account.RouterOptions{
			HealthChecks: map[string]httpserver.Check{
				"postgres": func(context.Context) error { return errors.New("down") },
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postgres":"fail"`)
	})

	t.Run("routes without services are not mounted", func(t *testing.T) {
		t.Parallel()
		router := account.Router(account.RouterOptions{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signup/parent", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
