package engine

import (
	"context"
	"time"
)

const (
	ColorProbeWindow = 3 * time.Second
	SelfGuidedLimit  = 30 * time.Second
)

// Response is the answer on the icon screen. On timeout Choice is
// ChoiceNone and Time is the full window.
type Response struct {
	Choice Choice
	Time   float64
	Missed bool
}

// ColorResponse follows the same timeout contract as Response.
type ColorResponse struct {
	Color  Color
	Time   float64
	Missed bool
}

func (r ColorResponse) Label() string {
	if r.Missed {
		return NoResponse
	}
	return r.Color.String()
}

// CollectChoice waits for an arrow key that points at a usable icon.
func (w *Waiter) CollectChoice(ctx context.Context, layout ChoiceLayout, window time.Duration) (Response, error) {
	res, err := w.Wait(ctx, window, func(ev Event) bool {
		if ev.Type != EventKey {
			return false
		}
		dir, ok := keyDirection(ev.Key)
		if !ok {
			return false
		}
		_, usable := layout.At(dir)
		return usable
	})
	if err != nil {
		return Response{}, err
	}
	if res.TimedOut {
		return Response{Choice: ChoiceNone, Time: window.Seconds(), Missed: true}, nil
	}
	dir, _ := keyDirection(res.Event.Key)
	c, _ := layout.At(dir)
	return Response{Choice: c, Time: res.Elapsed.Seconds()}, nil
}

// CollectColor waits for left (red) or right (yellow).
func (w *Waiter) CollectColor(ctx context.Context, window time.Duration) (ColorResponse, error) {
	res, err := w.Wait(ctx, window, func(ev Event) bool {
		return ev.Type == EventKey && (ev.Key == KeyLeft || ev.Key == KeyRight)
	})
	if err != nil {
		return ColorResponse{}, err
	}
	if res.TimedOut {
		return ColorResponse{Time: window.Seconds(), Missed: true}, nil
	}
	c := ColorRed
	if res.Event.Key == KeyRight {
		c = ColorYellow
	}
	return ColorResponse{Color: c, Time: res.Elapsed.Seconds()}, nil
}
