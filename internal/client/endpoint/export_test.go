package endpoint

import "time"

func (r *Resolver) SetInitialInterval(d time.Duration) {
	r.initialInterval = d
}
