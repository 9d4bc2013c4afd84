package launchplug

import (
	"fmt"
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/hpcdesk/launchpad/pkg/history"
)

// HandlerPlugin is the go-plugin adapter for Handler. The host side
// dispenses a HandlerRPC; the plugin side serves the wrapped Impl.
type HandlerPlugin struct {
	Impl Handler
}

func (p *HandlerPlugin) Server(broker *plugin.MuxBroker) (interface{}, error) {
	return &handlerServer{impl: p.Impl, broker: broker}, nil
}

func (p *HandlerPlugin) Client(broker *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &HandlerRPC{client: c, broker: broker}, nil
}

// BuildRequest crosses the process boundary. HostServicesID is a broker
// stream the plugin dials to reach the host callbacks while Build runs.
type BuildRequest struct {
	Context        Context
	HostServicesID uint32
}

type BuildResponse struct {
	UI *UI
}

// HandlerRPC is the host-side client for a remote handler.
type HandlerRPC struct {
	client *rpc.Client
	broker *plugin.MuxBroker
}

func (h *HandlerRPC) Build(host HostServices, ctx Context) (*UI, error) {
	id := h.broker.NextId()
	go h.broker.AcceptAndServe(id, &hostServicesServer{impl: host})

	var resp BuildResponse
	if err := h.client.Call("Plugin.Build", BuildRequest{Context: ctx, HostServicesID: id}, &resp); err != nil {
		return nil, fmt.Errorf("handler build: %w", err)
	}
	return resp.UI, nil
}

// handlerServer runs inside the plugin process.
type handlerServer struct {
	impl   Handler
	broker *plugin.MuxBroker
}

func (s *handlerServer) Build(req BuildRequest, resp *BuildResponse) error {
	conn, err := s.broker.Dial(req.HostServicesID)
	if err != nil {
		return fmt.Errorf("dial host services: %w", err)
	}
	client := rpc.NewClient(conn)
	defer client.Close()

	ui, err := s.impl.Build(&hostServicesRPC{client: client}, req.Context)
	if err != nil {
		return err
	}
	resp.UI = ui
	return nil
}

// RegisterSessionArgs carries the RegisterStartedSession callback.
type RegisterSessionArgs struct {
	PID   int
	Label string
	PGID  int
}

// hostServicesRPC is the plugin-side client for the host callbacks.
type hostServicesRPC struct {
	client *rpc.Client
}

func (h *hostServicesRPC) RegisterStartedSession(pid int, label string, pgid int) error {
	var reply struct{}
	return h.client.Call("Plugin.RegisterStartedSession", RegisterSessionArgs{PID: pid, Label: label, PGID: pgid}, &reply)
}

func (h *hostServicesRPC) RecordHistory(entry history.Entry) error {
	var reply struct{}
	return h.client.Call("Plugin.RecordHistory", entry, &reply)
}

// hostServicesServer runs inside the host process for the duration of
// one Build call.
type hostServicesServer struct {
	impl HostServices
}

func (s *hostServicesServer) RegisterStartedSession(args RegisterSessionArgs, _ *struct{}) error {
	return s.impl.RegisterStartedSession(args.PID, args.Label, args.PGID)
}

func (s *hostServicesServer) RecordHistory(entry history.Entry, _ *struct{}) error {
	return s.impl.RecordHistory(entry)
}
