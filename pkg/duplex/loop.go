// ABOUTME: The stream I/O loop and its failure/drain state machine
// ABOUTME: Pulls callback data, converts, exchanges blocks with the device
package duplex

import "log"

// ioLoop is the body of the stream's I/O goroutine. It runs one iteration
// per block until stopped, drained or failed, and reports the terminal state
// exactly once. The mutex is never held across device I/O or the callbacks.
func (s *Stream) ioLoop() {
	defer close(s.done)

	state := StateStarted
	drain := false

	s.stateCB(s, s.userData, StateStarted)
	for state == StateStarted {
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if !running {
			state = StateStopped
			break
		}

		if !s.play.active() && !s.record.active() {
			// Neither direction has a device. Nothing to do.
			state = StateStopped
			break
		}

		// Convert the previous iteration's captured block (silence on the
		// first) before the callback sees it.
		if s.record.active() && s.record.floating {
			linear32ToFloat(s.record.buf, s.record.info.channels*s.blockFrames)
		}

		var input, output []byte
		if s.record.active() {
			input = s.record.buf
		}
		if s.play.active() {
			output = s.play.buf
		}
		nfr, err := s.dataCB(s, s.userData, input, output, s.blockFrames)
		if err != nil || nfr < 0 || nfr > s.blockFrames {
			if err != nil {
				log.Printf("duplex: %s: data callback failed: %v", s.name, err)
			}
			state = StateError
			break
		}

		if s.play.active() {
			s.mu.Lock()
			vol := s.volume
			s.mu.Unlock()

			// Convert only the frames the callback produced, never the
			// full buffer, so stale samples are left untouched.
			if s.play.floating {
				floatToLinear32(s.play.buf, s.play.info.channels*nfr, vol)
			} else {
				linear16ScaleVolume(s.play.buf, s.play.info.channels*nfr, vol)
			}
		}

		if nfr < s.blockFrames {
			if s.play.active() {
				// The short block still has to be flushed before stopping.
				drain = true
			} else {
				// Record-only stream and the callback consumed fewer frames
				// than captured: end of capture, nothing to flush.
				state = StateStopped
				break
			}
		}

		toWrite, toRead := 0, 0
		if s.play.active() {
			toWrite = nfr
		}
		if s.record.active() {
			toRead = s.blockFrames
		}
		writeOfs, readOfs := 0, 0
		for toWrite > 0 || toRead > 0 {
			if toWrite > 0 {
				end := writeOfs + toWrite*s.play.frameSize
				if end > len(s.play.buf) {
					end = len(s.play.buf)
				}
				n, err := s.play.dev.Write(s.play.buf[writeOfs:end])
				if err != nil {
					log.Printf("duplex: %s: device write failed: %v", s.name, err)
					state = StateError
					break
				}
				frames := n / s.play.frameSize
				s.mu.Lock()
				s.framesWritten += uint64(frames)
				s.mu.Unlock()
				toWrite -= frames
				writeOfs += n
			}
			if toRead > 0 {
				end := readOfs + toRead*s.record.frameSize
				if end > len(s.record.buf) {
					end = len(s.record.buf)
				}
				n, err := s.record.dev.Read(s.record.buf[readOfs:end])
				if err != nil {
					log.Printf("duplex: %s: device read failed: %v", s.name, err)
					state = StateError
					break
				}
				toRead -= n / s.record.frameSize
				readOfs += n
			}
		}
		if drain && state != StateError {
			state = StateDrained
			break
		}
	}
	s.stateCB(s, s.userData, state)
}
