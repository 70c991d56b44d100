// Package hosttest starts a mock host on a loopback port for tests, in the spirit
// of net/http/httptest.
package hosttest

import (
	"net"
	"testing"

	"google.golang.org/grpc"

	"cafe_task/internal/host"
	"cafe_task/internal/sdk"
	"cafe_task/internal/shared/types"
)

// ServicePackage is the proto package the test host registers its services under.
const ServicePackage = "sdk"

// Host is a running mock host plus a channel dialed to it.
type Host struct {
	*host.Server
	Addr string
	Conn *grpc.ClientConn
}

// Client returns facades bound to the host's channel.
func (h *Host) Client() *sdk.Client {
	return sdk.New(h.Conn, ServicePackage)
}

// Start serves a mock host with the given input until the test ends.
func Start(t testing.TB, input string) *Host {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := host.New(input)
	gs := grpc.NewServer()
	srv.Register(gs, ServicePackage)
	go func() {
		_ = gs.Serve(lis)
	}()

	addr := lis.Addr().String()
	conn, err := sdk.Dial(types.RPCConf{Address: addr, ServicePackage: ServicePackage, CallTimeoutSeconds: 5})
	if err != nil {
		gs.Stop()
		t.Fatalf("dial mock host: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		gs.Stop()
	})
	return &Host{Server: srv, Addr: addr, Conn: conn}
}
