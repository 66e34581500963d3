// Package gridgin serves gridpager envelopes from gin handlers.
package gridgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Alp4ka/gridpager"
)

type (
	// AdminFunc reports whether the request is made by an admin user.
	AdminFunc func(c *gin.Context) bool

	// Option configures a handler.
	Option func(*options)

	options struct {
		fields  []string
		isAdmin AdminFunc
	}

	// failure is the body the grid reader expects for failed loads.
	failure struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

// WithFields dumps these fields instead of the entity's configured ones.
func WithFields(fields ...string) Option {
	return func(o *options) {
		o.fields = fields
	}
}

// WithAdminFunc selects the admin field group for requests isAdmin accepts.
func WithAdminFunc(isAdmin AdminFunc) Option {
	return func(o *options) {
		o.isAdmin = isAdmin
	}
}

// Handler loads a page of T for each request and writes it as an envelope.
//
// Query (or form) parameters: page, start, limit, sort and dir. Invalid
// parameters answer 400, dump and query failures answer 500, both with
// {"success": false, "message": "..."}.
func Handler[T any](pager *gridpager.Pager[T], dumper *gridpager.Dumper, opts ...Option) gin.HandlerFunc {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}

	return func(c *gin.Context) {
		params, err := BindParams(c)
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}

		page, err := pager.Fetch(c.Request.Context(), params)
		if err != nil {
			fail(c, statusOf(err), err)
			return
		}

		d := dumper
		if o.isAdmin != nil {
			d = dumper.ForAdmin(o.isAdmin(c))
		}

		envelope, err := gridpager.DumpPage(d, page, o.fields...)
		if err != nil {
			fail(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}

// BindParams reads grid paging parameters from the query string or the
// posted form.
func BindParams(c *gin.Context) (gridpager.Params, error) {
	var params gridpager.Params
	if err := c.ShouldBind(&params); err != nil {
		return gridpager.Params{}, err
	}

	raw, ok := c.GetQuery("sort")
	if !ok {
		raw = c.PostForm("sort")
	}

	dir, ok := c.GetQuery("dir")
	if !ok {
		dir = c.PostForm("dir")
	}

	if err := params.Validate(); err != nil {
		return gridpager.Params{}, err
	}

	// JSON bodies carry sorters already decoded.
	if raw == "" {
		return params, nil
	}

	sorters, err := gridpager.ParseSorters(raw, dir)
	if err != nil {
		return gridpager.Params{}, err
	}
	params.Sort = sorters

	return params, nil
}

func statusOf(err error) int {
	if errors.Is(err, gridpager.ErrInvalidSort) || errors.Is(err, gridpager.ErrInvalidParams) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, failure{
		Success: false,
		Message: err.Error(),
	})
}
