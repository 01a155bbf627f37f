// Package control exposes the viewer on the session bus so other programs
// (window manager bindings, scripts) can scroll it.
package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/lyricpane/internal/view"
)

const (
	BusName    = "com.karolbroda.Lyricpane"
	ObjectPath = dbus.ObjectPath("/com/karolbroda/Lyricpane")
	Interface  = "com.karolbroda.Lyricpane"
)

var ErrNameTaken = errors.New("another instance owns the remote control name")

// Dispatcher receives events decoded from remote calls. It must be safe to
// call from the bus goroutine.
type Dispatcher func(view.Event)

type Server struct {
	bus      *dbus.Conn
	dispatch Dispatcher
}

// Move is the exported method. Directions are up, down, top and bottom.
func (s *Server) Move(direction string) *dbus.Error {
	ev, err := view.Move(direction)
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	s.dispatch(ev)
	return nil
}

// Export claims BusName and publishes Move on ObjectPath.
func Export(bus *dbus.Conn, dispatch Dispatcher) (*Server, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if dispatch == nil {
		return nil, errors.New("nil dispatcher")
	}

	s := &Server{bus: bus, dispatch: dispatch}
	if err := bus.ExportMethodTable(map[string]any{"Move": s.Move}, ObjectPath, Interface); err != nil {
		return nil, fmt.Errorf("failed to export remote control: %w", err)
	}

	reply, err := bus.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = bus.ExportMethodTable(nil, ObjectPath, Interface)
		return nil, fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = bus.ExportMethodTable(nil, ObjectPath, Interface)
		return nil, ErrNameTaken
	}

	return s, nil
}

func (s *Server) Close() error {
	if err := s.bus.ExportMethodTable(nil, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to unexport remote control: %w", err)
	}
	if _, err := s.bus.ReleaseName(BusName); err != nil {
		return fmt.Errorf("failed to release bus name: %w", err)
	}
	return nil
}

// Send calls Move on a running viewer.
func Send(ctx context.Context, bus *dbus.Conn, direction string) error {
	if _, err := view.Move(direction); err != nil {
		return err
	}

	call := bus.Object(BusName, ObjectPath).CallWithContext(ctx, Interface+".Move", 0, direction)
	if call.Err != nil {
		return fmt.Errorf("failed to reach a running lyricpane: %w", call.Err)
	}
	return nil
}
