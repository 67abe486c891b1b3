package systemd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/sirupsen/logrus"
)

// dbusConn is the slice of dbus.Conn the controller uses, abstracted so
// tests can stand in for a live bus.
type dbusConn interface {
	ReloadContext(ctx context.Context) error
	RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	GetUnitPropertyContext(ctx context.Context, unit string, propertyName string) (*dbus.Property, error)
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	Close()
}

// newDBusConn is swapped by tests to avoid a live bus connection.
var newDBusConn = func(ctx context.Context, user bool) (dbusConn, error) {
	if user {
		return dbus.NewUserConnectionContext(ctx)
	}
	return dbus.NewSystemConnectionContext(ctx)
}

// DBusController talks to the systemd manager over D-Bus.
type DBusController struct {
	conn dbusConn

	// mu serializes manager mutations so a reload never races a restart
	// issued by the same process.
	mu sync.Mutex
}

// NewDBusController connects to the manager bus. With user set, the
// per-user instance is addressed instead of the system one.
func NewDBusController(ctx context.Context, user bool) (*DBusController, error) {
	conn, err := newDBusConn(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd bus: %w", err)
	}
	return &DBusController{conn: conn}, nil
}

// Reload implements Controller.
func (c *DBusController) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrReloadFailed, err)
	}
	return nil
}

// Restart implements Controller. It waits for the restart job to finish
// and treats any job result other than done as a failure.
func (c *DBusController) Restart(ctx context.Context, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan string, 1)
	if _, err := c.conn.RestartUnitContext(ctx, unit, "replace", ch); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRestartFailed, unit, err)
	}
	select {
	case status := <-ch:
		if status != "done" {
			return fmt.Errorf("%w: %s: job finished as %q", ErrRestartFailed, unit, status)
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", ErrRestartFailed, unit, ctx.Err())
	}
	return nil
}

// RunState implements Controller.
func (c *DBusController) RunState(ctx context.Context, unit string) (RunState, error) {
	prop, err := c.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return StateUnknown, fmt.Errorf("failed to read ActiveState of %s: %w", unit, err)
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return StateUnknown, fmt.Errorf("unexpected ActiveState type for %s", unit)
	}
	return parseRunState(state), nil
}

// Enabled implements Controller.
func (c *DBusController) Enabled(ctx context.Context, unit string) (bool, error) {
	prop, err := c.conn.GetUnitPropertyContext(ctx, unit, "UnitFileState")
	if err != nil {
		return false, fmt.Errorf("failed to read UnitFileState of %s: %w", unit, err)
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return false, fmt.Errorf("unexpected UnitFileState type for %s", unit)
	}
	return parseEnabled(state), nil
}

// ListUnits implements Controller. Only loaded service units are
// returned, sorted by name.
func (c *DBusController) ListUnits(ctx context.Context) ([]string, error) {
	units, err := c.conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	var names []string
	for _, u := range units {
		if strings.HasSuffix(u.Name, ".service") {
			names = append(names, u.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close implements Controller.
func (c *DBusController) Close() error {
	c.conn.Close()
	return nil
}

// Connect returns a Controller for the selected instance, preferring the
// bus and falling back to systemctl when the bus is unreachable.
func Connect(ctx context.Context, user bool, log *logrus.Logger) Controller {
	ctl, err := NewDBusController(ctx, user)
	if err != nil {
		log.WithError(err).Debug("systemd bus unavailable, falling back to systemctl")
		return NewCmdlineController(user)
	}
	return ctl
}

// ProbeBus opens and immediately closes a bus connection, reporting
// whether direct bus access works on this host.
func ProbeBus(ctx context.Context, user bool) error {
	conn, err := newDBusConn(ctx, user)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}
