// Package psu drives a bench power supply that speaks the KORAD/Tenma style
// ASCII protocol over a serial line.
//
// Every operation is one synchronous exchange: the device is opened, a
// command terminated by a carriage return is written, one line is read back
// within the read timeout, and the device is closed again.
//
// # Basic Usage
//
//	supply, err := psu.New("/dev/ttyACM0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	volts, err := supply.Voltage(ctx, 1, true)   // VOUT1?
//	_, err = supply.SetVoltage(ctx, 1, 5)        // VSET1:5.0
//	_, err = supply.SetOutput(ctx, true)         // OUT1
//
// # Replies
//
// A reply that parses as a decimal number decodes to a float. Anything else
// is kept as the bit pattern of its raw bytes, read as an unsigned integer in
// host byte order; that is how the STATUS? byte is reported:
//
//	status, err := supply.Status(ctx)
//	fmt.Println(status.Bits()) // e.g. "01010001"
//
// Set commands are usually not acknowledged, so they commonly return
// ErrNoResponse.
//
// # Error Handling
//
// Transport failures are logged and returned as *SendError, which unwraps to
// the cause:
//
//	if errors.Is(err, psu.ErrDeviceNotFound) {
//	    // supply unplugged
//	}
//	if errors.Is(err, psu.ErrNoResponse) {
//	    // port fine, device silent
//	}
//
// # Default Configuration
//
//   - BaudRate: 9600
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - ReadTimeout: 100ms
//
// A Dispatcher holds no connection between calls and does not arbitrate
// concurrent access; serialize calls against one device yourself.
package psu
