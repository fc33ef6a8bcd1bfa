package lookbook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service, caller string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	RegisterRoutes(app.Group("/lookbooks"), svc, auth.WithUserID(caller))
	return app
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestListHandlerPageParsing(t *testing.T) {
	app := newApp(NewService(nil, nil), ownerID)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/lookbooks?page=abc", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for non-integer page")
	}

	mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	app = newApp(NewService(mock, nil), ownerID)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/lookbooks", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
	var page map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page["page"].(float64) != 1 || page["pages"].(float64) != 0 {
		t.Fatalf("unexpected page: %v", page)
	}
	if list, ok := page["lookbooks"].([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty lookbooks array: %v", page["lookbooks"])
	}
}

func TestGetHandler(t *testing.T) {
	app := newApp(NewService(nil, nil), ownerID)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/lookbooks/not-a-uuid", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}

	mock := newMock(t)
	expectGet(mock, otherID)
	app = newApp(NewService(mock, nil), ownerID)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/lookbooks/"+lookbookID, nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["_id"] != lookbookID {
		t.Fatalf("unexpected id: %v", body["_id"])
	}
	creator, _ := body["creator"].(map[string]any)
	if creator["username"] != "owner" {
		t.Fatalf("expected resolved creator: %v", body["creator"])
	}
}

func TestCreateHandler(t *testing.T) {
	app := newApp(NewService(nil, nil), ownerID)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/lookbooks", "{bad"))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/lookbooks", `{"title":"t","description":"d","images":[]}`))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected validation failure without images")
	}

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO lookbooks`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO lookbook_images`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	expectGet(mock)

	app = newApp(NewService(mock, nil), ownerID)
	resp, err = app.Test(jsonRequest(http.MethodPost, "/lookbooks", `{"title":"t","description":"d","images":[{"url":"https://img/1.jpg"}]}`))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected created")
	}
}

func TestCreateHandlerRequiresIdentity(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	RegisterRoutes(app.Group("/lookbooks"), NewService(nil, nil), auth.JWTMiddleware("secret"))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/lookbooks", `{}`))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestDeleteHandler(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT creator_id FROM lookbooks`).WithArgs(lookbookID).
		WillReturnRows(pgxmock.NewRows([]string{"creator_id"}).AddRow(ownerID))
	mock.ExpectExec(`DELETE FROM lookbooks`).WithArgs(lookbookID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	app := newApp(NewService(mock, nil), ownerID)
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/lookbooks/"+lookbookID, nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["message"] != "Lookbook removed" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUpdateHandlerForbidden(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT creator_id FROM lookbooks`).WithArgs(lookbookID).
		WillReturnRows(pgxmock.NewRows([]string{"creator_id"}).AddRow(ownerID))
	mock.ExpectRollback()

	app := newApp(NewService(mock, nil), otherID)
	resp, err := app.Test(jsonRequest(http.MethodPut, "/lookbooks/"+lookbookID, `{"title":"mine now"}`))
	if err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden")
	}
}

func TestLikeAndCommentHandlers(t *testing.T) {
	mock := newMock(t)
	expectToggle(mock, otherID, 0, otherID)
	mock.ExpectExec(`INSERT INTO lookbook_comments`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM lookbook_comments`).WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "lookbook_id", "text", "created_at", "user_id", "username", "profile_picture"}).
			AddRow("c1", lookbookID, "nice", time.Now(), otherID, "other", ""))

	app := newApp(NewService(mock, nil), otherID)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/lookbooks/"+lookbookID+"/like", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok for like")
	}
	var like LikeResult
	if err := json.NewDecoder(resp.Body).Decode(&like); err != nil || !like.Liked {
		t.Fatalf("unexpected like body: %+v (%v)", like, err)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/lookbooks/"+lookbookID+"/comment", `{"text":""}`))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for blank comment")
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/lookbooks/"+lookbookID+"/comment", `{"text":"nice"}`))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected created for comment")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
