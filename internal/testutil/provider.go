package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
)

// ProviderCall una llamada registrada por FakeProvider.
type ProviderCall struct {
	Method   string // Submit | Fetch
	Endpoint string
	UUID     string
	Payload  json.RawMessage
}

// FakeProvider doble del proveedor: devuelve Result (o el de ResultFn) y
// registra cada llamada.
type FakeProvider struct {
	mu       sync.Mutex
	Result   *dataico.Result
	ResultFn func(endpoint string, payload json.RawMessage) *dataico.Result
	Calls    []ProviderCall
}

// Accepting proveedor que acepta todo con el dian_status y CUFE indicados.
func Accepting(dianStatus, cufe, uuid string) *FakeProvider {
	return &FakeProvider{Result: &dataico.Result{
		Success:    true,
		StatusCode: 201,
		Response:   &dataico.Response{DianStatus: dianStatus, CUFE: cufe, UUID: uuid},
		RawBody:    json.RawMessage(`{"dian_status":"` + dianStatus + `","cufe":"` + cufe + `","uuid":"` + uuid + `"}`),
	}}
}

func (p *FakeProvider) Submit(_ context.Context, payload any, endpoint string) *dataico.Result {
	raw, _ := json.Marshal(payload)
	p.mu.Lock()
	p.Calls = append(p.Calls, ProviderCall{Method: "Submit", Endpoint: endpoint, Payload: raw})
	p.mu.Unlock()
	if p.ResultFn != nil {
		return p.ResultFn(endpoint, raw)
	}
	return p.result()
}

func (p *FakeProvider) Fetch(_ context.Context, endpoint, uuid string) *dataico.Result {
	p.mu.Lock()
	p.Calls = append(p.Calls, ProviderCall{Method: "Fetch", Endpoint: endpoint, UUID: uuid})
	p.mu.Unlock()
	return p.result()
}

// CallCount número de llamadas registradas.
func (p *FakeProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// LastCall última llamada registrada.
func (p *FakeProvider) LastCall() ProviderCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Calls) == 0 {
		return ProviderCall{}
	}
	return p.Calls[len(p.Calls)-1]
}

func (p *FakeProvider) result() *dataico.Result {
	if p.Result == nil {
		return &dataico.Result{Success: true, StatusCode: 200, Response: &dataico.Response{}}
	}
	cp := *p.Result
	return &cp
}
