// Package sse streams server-sent events to browser clients.
//
// A Hub owns the connected clients and routes published events to every
// client whose id matches a glob pattern, so one browser session with
// several tabs is addressed as "registration:<session>:*".
//
//	hub := sse.NewHub(log)
//	go hub.Run()
//	router.GET("/events", func(c *gin.Context) {
//	    sse.ServeSSE(hub, c.Writer, c.Request, "registration:"+sid+":"+uuid.NewString())
//	})
//	hub.Publish("registration:"+sid+":*", sse.Event{Type: "state", Data: payload})
package sse
