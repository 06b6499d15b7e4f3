package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getstubd/stubd/internal/routing"
	"github.com/getstubd/stubd/pkg/objectstore"
	"github.com/getstubd/stubd/pkg/schema"
)

// BuildRegistrar turns the config's route entries into a registration
// function. The function is re-run against a fresh table on every reload,
// so it must not capture table state; it may capture the store, which
// survives reloads.
func BuildRegistrar(cfg *Config, store objectstore.Store) func(*routing.Table) error {
	// Snapshot the routes so a concurrently reloaded config cannot
	// change them under a running registrar.
	routes := make([]RouteConfig, len(cfg.Routes))
	copy(routes, cfg.Routes)

	return func(table *routing.Table) error {
		for i := range routes {
			rc := &routes[i]

			handler, err := buildHandler(rc, store)
			if err != nil {
				return fmt.Errorf("routes[%d] %s %s: %w", i, rc.Method, rc.Path, err)
			}

			var opts []routing.RouteOption
			if rc.Validate != nil {
				v, err := buildValidation(rc.Validate)
				if err != nil {
					return fmt.Errorf("routes[%d] %s %s: %w", i, rc.Method, rc.Path, err)
				}
				opts = append(opts, routing.WithValidation(v))
			}

			if err := table.Register(rc.Method, rc.Path, handler, opts...); err != nil {
				return fmt.Errorf("routes[%d]: %w", i, err)
			}
		}
		return nil
	}
}

func buildValidation(vc *ValidateConfig) (*routing.Validation, error) {
	v := &routing.Validation{}
	if len(vc.Params) > 0 {
		v.Params = make(map[string]schema.Validator, len(vc.Params))
		for name, spec := range vc.Params {
			validator, err := schema.Parse(spec)
			if err != nil {
				return nil, fmt.Errorf("validate.params.%s: %w", name, err)
			}
			v.Params[name] = validator
		}
	}
	if len(vc.Query) > 0 {
		v.Query = make(map[string]schema.Validator, len(vc.Query))
		for name, spec := range vc.Query {
			validator, err := schema.Parse(spec)
			if err != nil {
				return nil, fmt.Errorf("validate.query.%s: %w", name, err)
			}
			v.Query[name] = validator
		}
	}
	if vc.Body != nil {
		validator, err := schema.Parse(vc.Body)
		if err != nil {
			return nil, fmt.Errorf("validate.body: %w", err)
		}
		v.Body = validator
	}
	return v, nil
}

func buildHandler(rc *RouteConfig, store objectstore.Store) (routing.HandlerFunc, error) {
	if rc.Response != nil {
		return cannedHandler(rc.Response), nil
	}
	if rc.Store == nil {
		return nil, errors.New("route has neither response nor store")
	}
	if store == nil {
		return nil, errors.New("store action configured but no store available")
	}

	sc := rc.Store
	idParam := sc.IDParam
	if idParam == "" {
		idParam = "id"
	}

	switch sc.Action {
	case "create":
		return createHandler(store, sc.Type, idParam), nil
	case "get":
		return getHandler(store, sc.Type, idParam), nil
	case "update":
		return updateHandler(store, sc.Type, idParam), nil
	case "delete":
		return deleteHandler(store, sc.Type, idParam), nil
	case "find":
		return findHandler(store, sc.Type), nil
	case "bulkCreate":
		return bulkCreateHandler(store), nil
	case "bulkGet":
		return bulkGetHandler(store), nil
	default:
		return nil, fmt.Errorf("unknown store action %q", sc.Action)
	}
}

func cannedHandler(rc *ResponseConfig) routing.HandlerFunc {
	return func(_ *routing.Request, _ routing.Responder) routing.Outcome {
		return routing.Outcome{
			Kind:    routing.KindHandled,
			Status:  rc.Status,
			Body:    rc.Body,
			Headers: rc.Headers,
		}
	}
}

func createHandler(store objectstore.Store, typ, idParam string) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		attrs, refs, ok := splitPayload(req.Body)
		if !ok {
			return res.BadRequest("request body must be a JSON object")
		}
		opts := objectstore.CreateOptions{References: refs}
		// A {id} in the path forces the object ID.
		if id, present := req.Params[idParam]; present {
			opts.ID = id
		}
		obj, err := store.Create(typ, attrs, opts)
		if err != nil {
			return storeError(res, err)
		}
		return res.Created(obj)
	}
}

func getHandler(store objectstore.Store, typ, idParam string) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		obj, err := store.Get(typ, req.Params[idParam])
		if err != nil {
			return storeError(res, err)
		}
		return res.Ok(obj)
	}
}

func updateHandler(store objectstore.Store, typ, idParam string) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		attrs, refs, ok := splitPayload(req.Body)
		if !ok {
			return res.BadRequest("request body must be a JSON object")
		}
		obj, err := store.Update(typ, req.Params[idParam], attrs, objectstore.UpdateOptions{References: refs})
		if err != nil {
			return storeError(res, err)
		}
		return res.Ok(obj)
	}
}

func deleteHandler(store objectstore.Store, typ, idParam string) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		if err := store.Delete(typ, req.Params[idParam]); err != nil {
			return storeError(res, err)
		}
		return res.NoContent()
	}
}

func findHandler(store objectstore.Store, typ string) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		opts := objectstore.FindOptions{}
		if typ != "" {
			opts.Types = []string{typ}
		}
		if v := queryString(req, "type"); v != "" {
			opts.Types = splitList(v)
		}
		opts.Search = queryString(req, "search")
		if v := queryString(req, "searchFields"); v != "" {
			opts.SearchFields = splitList(v)
		}
		opts.Page = queryInt(req, "page")
		opts.PerPage = queryInt(req, "perPage")

		result, err := store.Find(opts)
		if err != nil {
			return storeError(res, err)
		}
		return res.Ok(result)
	}
}

func bulkCreateHandler(store objectstore.Store) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		raw, ok := payloadItems(req.Body)
		if !ok {
			return res.BadRequest("request body must be a JSON array of objects")
		}
		items := make([]objectstore.BulkCreateItem, 0, len(raw))
		for i, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				return res.BadRequest(fmt.Sprintf("item %d must be a JSON object", i))
			}
			typ, _ := m["type"].(string)
			if typ == "" {
				return res.BadRequest(fmt.Sprintf("item %d is missing a type", i))
			}
			attrs, _ := m["attributes"].(map[string]any)
			id, _ := m["id"].(string)
			items = append(items, objectstore.BulkCreateItem{
				Type:       typ,
				ID:         id,
				Attributes: attrs,
				References: parseReferences(m["references"]),
			})
		}
		return res.Ok(map[string]any{"items": store.BulkCreate(items)})
	}
}

func bulkGetHandler(store objectstore.Store) routing.HandlerFunc {
	return func(req *routing.Request, res routing.Responder) routing.Outcome {
		raw, ok := payloadItems(req.Body)
		if !ok {
			return res.BadRequest("request body must be a JSON array of objects")
		}
		items := make([]objectstore.BulkGetItem, 0, len(raw))
		for i, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				return res.BadRequest(fmt.Sprintf("item %d must be a JSON object", i))
			}
			typ, _ := m["type"].(string)
			id, _ := m["id"].(string)
			if typ == "" || id == "" {
				return res.BadRequest(fmt.Sprintf("item %d needs both type and id", i))
			}
			items = append(items, objectstore.BulkGetItem{Type: typ, ID: id})
		}
		return res.Ok(map[string]any{"items": store.BulkGet(items)})
	}
}

// splitPayload interprets a write body. A body with an "attributes" object
// is treated as an envelope carrying attributes plus optional references;
// any other object is the attributes themselves. A nil body means empty
// attributes.
func splitPayload(body any) (map[string]any, []objectstore.Reference, bool) {
	if body == nil {
		return map[string]any{}, nil, true
	}
	m, ok := body.(map[string]any)
	if !ok {
		return nil, nil, false
	}
	if attrs, ok := m["attributes"].(map[string]any); ok {
		return attrs, parseReferences(m["references"]), true
	}
	return m, nil, true
}

// payloadItems accepts either a bare JSON array or an {"objects": [...]}
// envelope.
func payloadItems(body any) ([]any, bool) {
	if items, ok := body.([]any); ok {
		return items, true
	}
	if m, ok := body.(map[string]any); ok {
		if items, ok := m["objects"].([]any); ok {
			return items, true
		}
	}
	return nil, false
}

func parseReferences(raw any) []objectstore.Reference {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	refs := make([]objectstore.Reference, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := objectstore.Reference{}
		ref.ID, _ = m["id"].(string)
		ref.Type, _ = m["type"].(string)
		ref.Name, _ = m["name"].(string)
		refs = append(refs, ref)
	}
	return refs
}

func queryString(req *routing.Request, name string) string {
	switch v := req.Query[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func queryInt(req *routing.Request, name string) int {
	switch v := req.Query[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// storeError maps typed store errors onto their HTTP status.
func storeError(res routing.Responder, err error) routing.Outcome {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return res.CustomError(sc.StatusCode(), err.Error())
	}
	return res.CustomError(500, err.Error())
}
