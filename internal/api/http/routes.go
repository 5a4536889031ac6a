package httpapi

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/i474232898/upcoming-weather/internal/refresh"
	"github.com/i474232898/upcoming-weather/internal/scene"
	"github.com/i474232898/upcoming-weather/internal/store"
	"github.com/i474232898/upcoming-weather/internal/weather"
)

var validate = validator.New()

// keepAliveInterval spaces SSE comments that detect gone clients.
var keepAliveInterval = 15 * time.Second

// SceneOptions configures scene derivation for the routes.
type SceneOptions struct {
	TimeZone *time.Location
	Now      func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *refresh.Service, opts SceneOptions) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	st := service.Store()
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(st.State())
	})

	// Pull-to-refresh.
	v1.Post("/refresh", func(c *fiber.Ctx) error {
		err := service.Refresh(c.UserContext())
		if err != nil {
			if errors.Is(err, refresh.ErrRefreshInProgress) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			var fe *weather.FetchError
			if errors.As(err, &fe) {
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch forecast")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh forecast")
		}
		return c.JSON(st.State())
	})

	v1.Get("/scene", func(c *fiber.Ctx) error {
		sc, err := buildScene(c, st, service.Location().Name, opts)
		if err != nil {
			return err
		}
		return c.JSON(sc)
	})

	v1.Get("/scene/text", func(c *fiber.Ctx) error {
		sc, err := buildScene(c, st, service.Location().Name, opts)
		if err != nil {
			return err
		}
		var b strings.Builder
		if err := scene.Render(&b, sc); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(b.String())
	})

	v1.Get("/events", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			streamStates(w, st)
		}))
		return nil
	})
}

// sceneQuery holds query parameters for the scene endpoints.
type sceneQuery struct {
	Day int `validate:"gte=0"`
}

func parseSceneQuery(c *fiber.Ctx) (sceneQuery, error) {
	var q sceneQuery

	if raw := c.Query("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("day must be an integer")
		}
		q.Day = day
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func buildScene(c *fiber.Ctx, st *store.Store, location string, opts SceneOptions) (scene.Scene, error) {
	q, err := parseSceneQuery(c)
	if err != nil {
		return scene.Scene{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sc, err := scene.Build(st.State(), q.Day, scene.Options{
		Location: location,
		Now:      opts.Now(),
		TimeZone: opts.TimeZone,
	})
	if err != nil {
		var ie *scene.IndexError
		if errors.As(err, &ie) {
			return scene.Scene{}, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return scene.Scene{}, err
	}
	return sc, nil
}

// streamStates writes the current state, then one event per dispatch, until
// the client goes away.
func streamStates(w *bufio.Writer, st *store.Store) {
	// a slow client skips intermediate states but always gets the latest
	updates := make(chan store.AppState, 1)
	unsubscribe := st.Subscribe(func(s store.AppState) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	if err := writeEvent(w, st.State()); err != nil {
		return
	}
	for {
		select {
		case s := <-updates:
			if err := writeEvent(w, s); err != nil {
				return
			}
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, s store.AppState) error {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("ERROR: events: encode state: %v", err)
		return err
	}
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return w.Flush()
}
