package serdser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/goccy/go-json"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/serdser"
	"github.com/parksmart/parknow/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageReq struct {
	Page int    `form:"page" binding:"gte=1"`
	Sort string `form:"sort" binding:"omitempty,oneof=name distance"`
}

func serve(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	e := gin.New()
	e.GET("/items", func(c *gin.Context) {
		req := &pageReq{}
		if ok := serdser.Bind(c, req, binding.Query); !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": req.Page})
	})
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	e.ServeHTTP(w, req)
	res := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w.Code, res
}

func TestBind(t *testing.T) {
	code, res := serve(t, "/items?page=2")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, res["page"])

	code, res = serve(t, "/items?page=abc")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res["detail"], "abc", "conversion errors are detailed")

	code, res = serve(t, "/items?page=0&sort=price")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res, "Page")
	assert.Contains(t, res, "Sort")
}

func TestSerErr(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code int
	}{
		{cerr.BadRequest(errors.New("bad")), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", cerr.NetworkFailure(errors.New("x"))),
			http.StatusBadGateway},
		{cerr.Timeout(context.Canceled), http.StatusGatewayTimeout},
		{fmt.Errorf("slow: %w", context.DeadlineExceeded),
			http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		serdser.SerErr(c, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}
