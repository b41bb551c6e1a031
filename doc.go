// Package ipcomm is a host-side driver for the Phytron IPCOMM serial bus,
// a master/slave, byte-oriented protocol addressing up to sixteen
// stepper-motor axis controllers over a single asynchronous serial link.
//
// A Session multiplexes requests from any number of goroutines onto the
// one physical bus, retransmitting on local and remote checksum failure,
// interrogating extended status on rx_error, and decoding replies into a
// structured error taxonomy. Axis wraps a Session and one bus address
// with typed motion, current, frequency and I/O accessors.
package ipcomm
