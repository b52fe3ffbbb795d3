package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/avern/bmcfand/internal/aggregation"
	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/curve"
	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/avern/bmcfand/internal/session"
	"github.com/avern/bmcfand/internal/sources"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/avern/bmcfand/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// number of control temperatures kept for the rolling average exposed via
// the API and statistics
const tempWindowSize = 10

// ZoneStatus is the last observed state of one zone, published after every
// successful tick.
type ZoneStatus struct {
	Name           string    `json:"name"`
	Session        string    `json:"session"`
	ControlTemp    uint8     `json:"controlTemp"`
	AvgControlTemp float64   `json:"avgControlTemp"`
	DutyCycle      uint8     `json:"dutyCycle"`
	Ticks          uint64    `json:"ticks"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

var ZoneStatusMap = cmap.New[ZoneStatus]()

// LoopPanickedError reports a zone control loop that crashed unexpectedly.
type LoopPanickedError struct {
	Zone  string
	Value interface{}
}

func (e *LoopPanickedError) Error() string {
	return fmt.Sprintf("control loop of zone '%s' panicked: %v", e.Zone, e.Value)
}

// ZoneController runs the periodic read -> aggregate -> interpolate ->
// actuate cycle for one configured zone.
type ZoneController struct {
	config  configuration.ZoneConfig
	session *session.Session

	reader     *sources.Reader
	aggregator aggregation.Aggregator
	curve      *curve.DutyCycleCurve

	tempWindow *rolling.PointPolicy
	ticks      uint64
}

func NewZoneController(config configuration.ZoneConfig, sess *session.Session) *ZoneController {
	return &ZoneController{
		config:     config,
		session:    sess,
		reader:     sources.NewReader(config.Sources),
		aggregator: aggregation.NewAggregator(config.Aggregation),
		curve:      curve.New(config.Steps),
		tempWindow: rolling.NewPointPolicy(rolling.NewWindow(tempWindowSize)),
	}
}

// Run executes control ticks until the context is cancelled or a tick fails
// beyond the zone's retry policy. Cancellation is cooperative: an in-flight
// hardware call finishes before the loop notices the abort. A panic inside
// the loop is reported as an error instead of taking the process down
// uncleanly, the supervisor still needs to restore fan control.
func (c *ZoneController) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &LoopPanickedError{Zone: c.config.Name, Value: r}
		}
	}()

	ui.Info("Starting control loop for zone '%s' (session '%s', aggregation %s, interval %ds)",
		c.config.Name, c.config.Session, c.aggregator, c.config.Interval)

	tick := time.Tick(c.config.IntervalDuration())
	for {
		if err := c.update(ctx); err != nil {
			// a retry wait cut short by shutdown is not a failure
			var interrupted *util.RetryInterruptedError
			if errors.As(err, &interrupted) {
				ui.Info("Stopping control loop for zone '%s'", c.config.Name)
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			ui.Info("Stopping control loop for zone '%s'", c.config.Name)
			return nil
		case <-tick:
		}
	}
}

// update performs a single control tick while holding the session's
// exclusive device guard.
func (c *ZoneController) update(ctx context.Context) error {
	retrier := util.Retrier(func(op func() error) error {
		return util.Retry(ctx, c.config.RetryCount(), c.config.RetryDelay(), op)
	})

	return c.session.WithDevice(func(device ipmi.Device) error {
		readings, err := c.reader.ReadAll(device, retrier)
		if err != nil {
			return err
		}

		controlTemp, err := c.aggregator.Aggregate(readings)
		if err != nil {
			return err
		}

		target := c.curve.DutyCycleFor(controlTemp)

		for _, zone := range c.config.IpmiZones {
			var current uint8
			err := retrier(func() error {
				var err error
				current, err = device.GetDutyCycle(zone)
				return err
			})
			if err != nil {
				return err
			}

			ui.Info("[%s] Zone %d: temp=%d°C, dcycle_cur=%d%%, dcycle_new=%d%%",
				c.config.Session, zone, controlTemp, current, target)

			err = retrier(func() error {
				return device.SetDutyCycle(zone, target)
			})
			if err != nil {
				return err
			}
		}

		c.publishStatus(controlTemp, target)
		return nil
	})
}

func (c *ZoneController) publishStatus(controlTemp uint8, dutyCycle uint8) {
	c.ticks++
	if c.ticks == 1 {
		// preload the window so the average is meaningful from the start
		for i := 1; i < tempWindowSize; i++ {
			c.tempWindow.Append(float64(controlTemp))
		}
	}
	c.tempWindow.Append(float64(controlTemp))

	ZoneStatusMap.Set(c.config.Name, ZoneStatus{
		Name:           c.config.Name,
		Session:        c.config.Session,
		ControlTemp:    controlTemp,
		AvgControlTemp: c.tempWindow.Reduce(rolling.Avg),
		DutyCycle:      dutyCycle,
		Ticks:          c.ticks,
		UpdatedAt:      time.Now(),
	})
}
