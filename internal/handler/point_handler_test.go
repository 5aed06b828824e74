package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ColetaApp/coleta_api/internal/models"
	"github.com/ColetaApp/coleta_api/internal/repository"
)

const testBaseURL = "http://localhost:3333/uploads"

type fakePointStore struct {
	created      *models.Point
	createdItems []int64
	createErr    error

	byID   map[int64]*models.Point
	titles map[int64][]string

	listCity  string
	listUF    string
	listItems []int64
	listRows  []models.Point
}

func (f *fakePointStore) Create(ctx context.Context, point *models.Point, itemIDs []int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	point.ID = 42
	f.created = point
	f.createdItems = itemIDs
	return nil
}

func (f *fakePointStore) GetByID(ctx context.Context, id int64) (*models.Point, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePointStore) ItemTitlesByPoint(ctx context.Context, pointID int64) ([]string, error) {
	return f.titles[pointID], nil
}

func (f *fakePointStore) List(ctx context.Context, city, uf string, itemIDs []int64) ([]models.Point, error) {
	f.listCity, f.listUF, f.listItems = city, uf, itemIDs
	return f.listRows, nil
}

type fakeImageStore struct {
	gotName string
	gotData []byte
}

func (f *fakeImageStore) Save(src io.Reader, originalName string) (string, error) {
	f.gotName = originalName
	f.gotData, _ = io.ReadAll(src)
	return "stored-" + originalName, nil
}

func newPointRouter(store *fakePointStore, images *fakeImageStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPointHandler(store, images, testBaseURL)

	r := gin.New()
	r.POST("/points", h.CreatePoint)
	r.GET("/points/:id", h.GetPoint)
	r.GET("/points", h.ListPoints)
	return r
}

// multipartBody builds a creation request body from form fields plus an
// optional image part.
func multipartBody(t *testing.T, fields map[string]string, imageName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		part.Write(image)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func TestCreatePointSuccess(t *testing.T) {
	store := &fakePointStore{}
	images := &fakeImageStore{}
	router := newPointRouter(store, images)

	body, contentType := multipartBody(t, validForm(), "front.jpg", []byte("jpegbytes"))
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.PointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 42 || resp.UF != "SP" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.ImageURL != testBaseURL+"/stored-front.jpg" {
		t.Fatalf("image_url = %q", resp.ImageURL)
	}

	if !reflect.DeepEqual(store.createdItems, []int64{1, 2}) {
		t.Fatalf("persisted item ids = %v", store.createdItems)
	}
	if images.gotName != "front.jpg" || string(images.gotData) != "jpegbytes" {
		t.Fatalf("stored image = %q (%q)", images.gotName, images.gotData)
	}
}

func TestCreatePointWithoutImage(t *testing.T) {
	store := &fakePointStore{}
	router := newPointRouter(store, &fakeImageStore{})

	body, contentType := multipartBody(t, validForm(), "", nil)
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.created.Image != "" {
		t.Fatalf("image ref = %q, want empty", store.created.Image)
	}
}

func TestCreatePointEnumeratesAllViolations(t *testing.T) {
	store := &fakePointStore{}
	router := newPointRouter(store, &fakeImageStore{})

	body, contentType := multipartBody(t, map[string]string{"name": "Ponto X"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// All seven remaining required fields, in one response.
	if len(resp.Errors) != 7 {
		t.Fatalf("errors = %+v, want 7 violations", resp.Errors)
	}
	if store.created != nil {
		t.Fatal("store written despite validation failure")
	}
}

func TestCreatePointRejectsLongUF(t *testing.T) {
	store := &fakePointStore{}
	router := newPointRouter(store, &fakeImageStore{})

	form := validForm()
	form["uf"] = "São Paulo"
	body, contentType := multipartBody(t, form, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ValidationErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "uf" {
		t.Fatalf("errors = %+v, want a single uf violation", resp.Errors)
	}
	if store.created != nil {
		t.Fatal("store written despite invalid uf")
	}
}

func TestCreatePointUnknownItem(t *testing.T) {
	store := &fakePointStore{createErr: repository.ErrUnknownItem}
	router := newPointRouter(store, &fakeImageStore{})

	body, contentType := multipartBody(t, validForm(), "", nil)
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown item id", rec.Code)
	}

	var resp ValidationErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "items" {
		t.Fatalf("errors = %+v", resp.Errors)
	}
}

func TestCreatePointPersistenceFailure(t *testing.T) {
	store := &fakePointStore{createErr: errors.New("connection reset")}
	router := newPointRouter(store, &fakeImageStore{})

	body, contentType := multipartBody(t, validForm(), "", nil)
	req := httptest.NewRequest(http.MethodPost, "/points", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGetPointDetail(t *testing.T) {
	store := &fakePointStore{
		byID: map[int64]*models.Point{
			7: {ID: 7, Image: "x.jpg", Name: "Ponto X", Email: "x@x.com", City: "São Paulo", UF: "SP"},
		},
		titles: map[int64][]string{7: {"Lâmpadas", "Pilhas e Baterias"}},
	}
	router := newPointRouter(store, &fakeImageStore{})

	req := httptest.NewRequest(http.MethodGet, "/points/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp models.PointDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Point.ImageURL != testBaseURL+"/x.jpg" {
		t.Fatalf("image_url = %q", resp.Point.ImageURL)
	}
	if len(resp.Items) != 2 || resp.Items[0].Title != "Lâmpadas" {
		t.Fatalf("items = %+v", resp.Items)
	}
}

func TestGetPointNotFound(t *testing.T) {
	router := newPointRouter(&fakePointStore{}, &fakeImageStore{})

	for _, path := range []string{"/points/999", "/points/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestListPointsAppliesFilters(t *testing.T) {
	store := &fakePointStore{
		listRows: []models.Point{{ID: 1, Image: "a.jpg", Name: "Ponto A", City: "São Paulo", UF: "SP"}},
	}
	router := newPointRouter(store, &fakeImageStore{})

	req := httptest.NewRequest(http.MethodGet, "/points?city=S%C3%A3o+Paulo&uf=SP&items=1,2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.listCity != "São Paulo" || store.listUF != "SP" || !reflect.DeepEqual(store.listItems, []int64{1, 2}) {
		t.Fatalf("filters = %q %q %v", store.listCity, store.listUF, store.listItems)
	}

	var resp []models.PointResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp) != 1 || resp[0].ImageURL != testBaseURL+"/a.jpg" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestListPointsEmptyResultIsEmptyArray(t *testing.T) {
	router := newPointRouter(&fakePointStore{}, &fakeImageStore{})

	req := httptest.NewRequest(http.MethodGet, "/points", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if body := rec.Body.String(); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}
