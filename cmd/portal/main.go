// Command portal serves the sign in and registration pages
// along with the /api/auth proxy to the upstream auth API.
package main

import (
	"log"

	"github.com/xy-planning-network/portal/ranger"
)

func main() {
	rng, err := ranger.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := rng.Guide(); err != nil {
		log.Fatal(err)
	}
}
