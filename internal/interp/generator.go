package interp

import "fmt"

// GeneratorState is the outcome of resuming a generator.
type GeneratorState struct {
	// Yielded is false once the generator has returned.
	Yielded bool
	Value   Value
}

type event struct {
	state GeneratorState
	err   error
}

// generator runs a body on its own goroutine and hands control back and
// forth over unbuffered channels, so at most one side runs at a time.
type generator struct {
	body    func(m *machine) (Value, error)
	in      *Interp
	started bool
	done    bool
	resume  chan struct{}
	events  chan event
}

func newGenerator(in *Interp, body func(m *machine) (Value, error)) *generator {
	return &generator{
		body:   body,
		in:     in,
		resume: make(chan struct{}),
		events: make(chan event),
	}
}

// Resume runs the generator until its next yield or its return.
func (g *generator) Resume() (GeneratorState, error) {
	if g.done {
		return GeneratorState{}, ErrCompleted
	}
	if !g.started {
		g.started = true
		go g.run()
	} else {
		g.resume <- struct{}{}
	}
	ev := <-g.events
	if ev.err != nil || !ev.state.Yielded {
		g.done = true
	}
	return ev.state, ev.err
}

func (g *generator) run() {
	var ev event
	defer func() {
		if r := recover(); r != nil {
			ev = event{err: fmt.Errorf("generator panicked: %v", r)}
		}
		g.events <- ev
	}()
	v, err := g.body(&machine{in: g.in, gen: g})
	ev = event{state: GeneratorState{Value: v}, err: err}
}

// yield is called from the generator goroutine.
func (g *generator) yield(v Value) {
	g.events <- event{state: GeneratorState{Yielded: true, Value: v}}
	<-g.resume
}

// genFuture adapts a generator to Future. Every yield means the body is
// waiting on something; the return value is the Result of the future.
type genFuture struct {
	gen *generator
}

func (f *genFuture) PollFuture() (Value, error) {
	st, err := f.gen.Resume()
	if err != nil {
		return nil, err
	}
	if st.Yielded {
		return Ok(NotReady()), nil
	}
	res, ok := st.Value.(*Variant)
	switch {
	case ok && res.Is("Ok") && len(res.Fields) == 1:
		return Ok(Ready(res.Fields[0])), nil
	case ok && res.Is("Err") && len(res.Fields) == 1:
		return res, nil
	}
	return nil, fmt.Errorf("%w: async function returned %s, not a Result", ErrType, Format(st.Value))
}

// genStream adapts a generator to Stream. The body yields not_ready() while
// waiting, Ok(item) for each item and Err(e) for each error. It returns ()
// when done; an error that escapes the body with ? ends the stream.
type genStream struct {
	gen  *generator
	done bool
}

func (s *genStream) PollStream() (Value, error) {
	if s.done {
		return Ok(Ready(None())), nil
	}
	st, err := s.gen.Resume()
	if err != nil {
		return nil, err
	}
	if !st.Yielded {
		s.done = true
		switch v := st.Value.(type) {
		case Unit:
			return Ok(Ready(None())), nil
		case *Variant:
			if v.Is("Err") {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: async stream returned %s, not ()", ErrType, Format(st.Value))
	}
	if _, ok := st.Value.(notReady); ok {
		return Ok(NotReady()), nil
	}
	res, ok := st.Value.(*Variant)
	switch {
	case ok && res.Is("Ok") && len(res.Fields) == 1:
		return Ok(Ready(Some(res.Fields[0]))), nil
	case ok && res.Is("Err") && len(res.Fields) == 1:
		return res, nil
	}
	return nil, fmt.Errorf("%w: async stream yielded %s, not a Result", ErrType, Format(st.Value))
}
