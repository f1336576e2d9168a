package storefront

import (
	"context"
	"encoding/json"
)

// pendingOrderKey slot del intento de pedido que aún no tiene respuesta del backend.
const pendingOrderKey = "checkout:pending"

type pendingOrder struct {
	Fingerprint string `json:"fingerprint"`
	Key         string `json:"key"`
}

// OrderAttemptKey devuelve la Idempotency-Key del intento guardado si fingerprint
// coincide. Si no hay intento o el pedido cambió, guarda uno nuevo con mint().
func (w *Workspace) OrderAttemptKey(ctx context.Context, fingerprint string, mint func() string) string {
	if raw, err := w.kv.Get(ctx, pendingOrderKey); err == nil {
		var p pendingOrder
		if json.Unmarshal(raw, &p) == nil && p.Key != "" && p.Fingerprint == fingerprint {
			return p.Key
		}
	}
	p := pendingOrder{Fingerprint: fingerprint, Key: mint()}
	raw, err := json.Marshal(p)
	if err == nil {
		err = w.kv.Set(ctx, pendingOrderKey, raw)
	}
	if err != nil {
		w.log.Warn().Err(err).Msg("no se pudo guardar el intento de pedido")
	}
	return p.Key
}

// ClearOrderAttempt olvida el intento en curso.
func (w *Workspace) ClearOrderAttempt(ctx context.Context) {
	if err := w.kv.Delete(ctx, pendingOrderKey); err != nil {
		w.log.Warn().Err(err).Msg("no se pudo borrar el intento de pedido")
	}
}
