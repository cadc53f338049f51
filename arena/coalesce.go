package arena

// coalesce merges block off with any physically adjacent free neighbors:
// forward first, then backward (only when boundary tags are enabled). off
// must already be free and already linked into its free list (Free inserts
// before calling coalesce). Returns the offset of the surviving block,
// which callers must use in place of off from this point on.
func (a *Arena) coalesce(off blockRef) blockRef {
	survivor := off
	survivorClass := a.classOf(a.headerAt(survivor).payloadSize)

	if next, ok := a.nextPhysical(survivor); ok {
		nh := a.headerAt(next)
		if nh.free {
			nextClass := a.classOf(nh.payloadSize)
			a.unlinkFree(nextClass, next)

			h := a.headerAt(survivor)
			h.payloadSize += a.headerSize + nh.payloadSize + a.footerSize
			a.writeFooter(survivor, h.payloadSize, true)
		}
	}

	if a.cfg.BoundaryTags {
		if prev, ok := a.prevPhysical(survivor); ok {
			ph := a.headerAt(prev)
			if ph.free {
				prevClass := a.classOf(ph.payloadSize)
				a.unlinkFree(survivorClass, survivor)

				h := a.headerAt(survivor)
				ph.payloadSize += a.headerSize + h.payloadSize + a.footerSize
				a.writeFooter(prev, ph.payloadSize, true)

				newPrevClass := a.classOf(ph.payloadSize)
				if newPrevClass != prevClass {
					a.unlinkFree(prevClass, prev)
					a.insertFree(newPrevClass, prev)
				}
				return prev
			}
		}
	}

	newSurvivorClass := a.classOf(a.headerAt(survivor).payloadSize)
	if newSurvivorClass != survivorClass {
		a.unlinkFree(survivorClass, survivor)
		a.insertFree(newSurvivorClass, survivor)
	}
	return survivor
}
