// Package registry provides a thread-safe set of values indexed by name.
//
// The Engine keeps its compiled templates in a Registry:
//
//	r := registry.New[*handybars.Template]()
//	r.Set("motd", handybars.MustCompile("Hello {{ user }}"))
//
//	tmpl, ok := r.Get("motd")
//
// Names returns a sorted snapshot and All iterates over one, so callers may
// mutate the registry while iterating:
//
//	for name, tmpl := range r.All() {
//	    if len(tmpl.Variables()) == 0 {
//	        r.Delete(name)
//	    }
//	}
//
// GetOrCreate calls its factory at most once per name, even under
// concurrent access.
package registry
