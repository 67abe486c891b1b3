package systemd

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

type fakeConn struct {
	reloadErr  error
	restartErr error
	jobStatus  string
	noStatus   bool
	props      map[string]string
	propErr    error
	units      []dbus.UnitStatus
	listErr    error
	closed     bool
	restarts   []string
}

func (f *fakeConn) ReloadContext(ctx context.Context) error { return f.reloadErr }

func (f *fakeConn) RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error) {
	if f.restartErr != nil {
		return 0, f.restartErr
	}
	f.restarts = append(f.restarts, name+"/"+mode)
	if f.noStatus {
		return 1, nil
	}
	status := f.jobStatus
	if status == "" {
		status = "done"
	}
	ch <- status
	return 1, nil
}

func (f *fakeConn) GetUnitPropertyContext(ctx context.Context, unit string, propertyName string) (*dbus.Property, error) {
	if f.propErr != nil {
		return nil, f.propErr
	}
	return &dbus.Property{Name: propertyName, Value: godbus.MakeVariant(f.props[propertyName])}, nil
}

func (f *fakeConn) ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error) {
	return f.units, f.listErr
}

func (f *fakeConn) Close() { f.closed = true }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDBusRestartWaitsForDone(t *testing.T) {
	conn := &fakeConn{}
	c := &DBusController{conn: conn}

	if err := c.Restart(context.Background(), "nginx.service"); err != nil {
		t.Fatalf("Restart error: %v", err)
	}
	if len(conn.restarts) != 1 || conn.restarts[0] != "nginx.service/replace" {
		t.Fatalf("unexpected restart calls: %v", conn.restarts)
	}
}

func TestDBusRestartJobNotDone(t *testing.T) {
	c := &DBusController{conn: &fakeConn{jobStatus: "failed"}}

	err := c.Restart(context.Background(), "nginx.service")
	if !errors.Is(err, ErrRestartFailed) {
		t.Fatalf("expected ErrRestartFailed, got %v", err)
	}
}

func TestDBusRestartRequestError(t *testing.T) {
	c := &DBusController{conn: &fakeConn{restartErr: errors.New("no such unit")}}

	err := c.Restart(context.Background(), "ghost.service")
	if !errors.Is(err, ErrRestartFailed) {
		t.Fatalf("expected ErrRestartFailed, got %v", err)
	}
}

func TestDBusRestartContextCancelled(t *testing.T) {
	c := &DBusController{conn: &fakeConn{noStatus: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Restart(ctx, "nginx.service")
	if !errors.Is(err, ErrRestartFailed) {
		t.Fatalf("expected ErrRestartFailed on cancelled context, got %v", err)
	}
}

func TestDBusReloadError(t *testing.T) {
	c := &DBusController{conn: &fakeConn{reloadErr: errors.New("access denied")}}

	err := c.Reload(context.Background())
	if !errors.Is(err, ErrReloadFailed) {
		t.Fatalf("expected ErrReloadFailed, got %v", err)
	}
}

func TestDBusRunState(t *testing.T) {
	cases := []struct {
		state string
		want  RunState
	}{
		{"active", StateActive},
		{"inactive", StateInactive},
		{"failed", StateFailed},
		{"activating", StateUnknown},
	}
	for _, tc := range cases {
		c := &DBusController{conn: &fakeConn{props: map[string]string{"ActiveState": tc.state}}}
		got, err := c.RunState(context.Background(), "a.service")
		if err != nil {
			t.Fatalf("%s: RunState error: %v", tc.state, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.state, tc.want, got)
		}
	}
}

func TestDBusRunStateError(t *testing.T) {
	c := &DBusController{conn: &fakeConn{propErr: errors.New("no such unit")}}

	if _, err := c.RunState(context.Background(), "ghost.service"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDBusEnabled(t *testing.T) {
	cases := []struct {
		state string
		want  bool
	}{
		{"enabled", true},
		{"static", true},
		{"disabled", false},
		{"masked", false},
	}
	for _, tc := range cases {
		c := &DBusController{conn: &fakeConn{props: map[string]string{"UnitFileState": tc.state}}}
		got, err := c.Enabled(context.Background(), "a.service")
		if err != nil {
			t.Fatalf("%s: Enabled error: %v", tc.state, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.state, tc.want, got)
		}
	}
}

func TestDBusListUnits(t *testing.T) {
	conn := &fakeConn{units: []dbus.UnitStatus{
		{Name: "nginx.service", ActiveState: "active"},
		{Name: "boot.mount", ActiveState: "active"},
		{Name: "cron.service", ActiveState: "inactive"},
	}}
	c := &DBusController{conn: conn}

	got, err := c.ListUnits(context.Background())
	if err != nil {
		t.Fatalf("ListUnits error: %v", err)
	}
	want := []string{"cron.service", "nginx.service"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDBusClose(t *testing.T) {
	conn := &fakeConn{}
	c := &DBusController{conn: conn}

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !conn.closed {
		t.Fatal("expected underlying connection to be closed")
	}
}

func TestConnectFallsBackToCmdline(t *testing.T) {
	orig := newDBusConn
	newDBusConn = func(ctx context.Context, user bool) (dbusConn, error) {
		return nil, errors.New("no bus")
	}
	t.Cleanup(func() { newDBusConn = orig })

	ctl := Connect(context.Background(), false, quietLogger())
	if _, ok := ctl.(*CmdlineController); !ok {
		t.Fatalf("expected cmdline fallback, got %T", ctl)
	}
}

func TestConnectPrefersBus(t *testing.T) {
	orig := newDBusConn
	newDBusConn = func(ctx context.Context, user bool) (dbusConn, error) {
		return &fakeConn{}, nil
	}
	t.Cleanup(func() { newDBusConn = orig })

	ctl := Connect(context.Background(), false, quietLogger())
	if _, ok := ctl.(*DBusController); !ok {
		t.Fatalf("expected bus controller, got %T", ctl)
	}
}

func TestProbeBus(t *testing.T) {
	orig := newDBusConn
	t.Cleanup(func() { newDBusConn = orig })

	conn := &fakeConn{}
	newDBusConn = func(ctx context.Context, user bool) (dbusConn, error) {
		return conn, nil
	}
	if err := ProbeBus(context.Background(), false); err != nil {
		t.Fatalf("ProbeBus() error = %v", err)
	}
	if !conn.closed {
		t.Fatal("probe connection left open")
	}

	newDBusConn = func(ctx context.Context, user bool) (dbusConn, error) {
		return nil, errors.New("no bus")
	}
	if err := ProbeBus(context.Background(), false); err == nil {
		t.Fatal("expected an error when the bus is unreachable")
	}
}
