package storefront

import (
	"strings"
	"sync"
)

// Locker serializa las peticiones concurrentes de un mismo dispositivo.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*deviceLock
}

type deviceLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker crea un Locker vacío.
func NewLocker() *Locker {
	return &Locker{locks: map[string]*deviceLock{}}
}

// Lock bloquea deviceID y devuelve la función que lo libera. Las entradas sin
// esperas pendientes se eliminan al liberar.
func (l *Locker) Lock(deviceID string) (unlock func()) {
	// la clave queda en el mapa más allá de la petición que la trajo
	deviceID = strings.Clone(deviceID)
	l.mu.Lock()
	dl, ok := l.locks[deviceID]
	if !ok {
		dl = &deviceLock{}
		l.locks[deviceID] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()
	return func() {
		dl.mu.Unlock()
		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, deviceID)
		}
		l.mu.Unlock()
	}
}

// Len dispositivos con el lock tomado o en espera.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
