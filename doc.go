/*
Package hyperway is a headless hypermedia runtime.

A Runtime holds a live HTML document, a window with location, history and
scroll state, and an event loop. Pages declare behaviour as compact JSON
actions in data attributes:

	<a id="next" href="/next" data-on-click='["NA", []]'>Next</a>
	<div data-frame="main:3">...</div>

Triggering an element decodes its action and evaluates it. Navigation actions
fetch the next page with a Way-Request header and reconcile it into the live
document: head entries are merged by their rendered form, and regions marked
with data-frame are replaced only when their name:value changed. The first
soft navigation of a page replaces the current history entry before pushing
the new one.

# Usage

	rt, err := hyperway.New(hyperway.WithTimeout(5 * time.Second))
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close()

	ctx := context.Background()
	if err := rt.Open(ctx, "http://localhost:8080/"); err != nil {
		log.Fatal(err)
	}
	if err := rt.Click(ctx, "next"); err != nil {
		log.Fatal(err)
	}
	// Navigations complete asynchronously.
	if err := rt.Wait(ctx); err != nil {
		log.Fatal(err)
	}

# Errors

Every failure, synchronous or not, goes through the handler set with
WithErrorHandler. Synchronous failures are returned from the method that
caused them; asynchronous ones are returned by Wait.
*/
package hyperway
