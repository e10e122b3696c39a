package forth65

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options parameterize a compilation. The zero value compiles with the
// defaults of the command-line tool.
type Options struct {
	// PStackBottom is the parameter-stack base address as an assembler
	// literal, e.g. "$600".
	PStackBottom string
	// PStackSize is the parameter-stack size in bytes; only the low 8 bits
	// are significant.
	PStackSize int
	// Sections is the output section order.
	Sections []string
	Log      logrus.FieldLogger
}

func DefaultSections() []string { return []string{"init", "boot", "data", "text"} }

func (o Options) withDefaults() Options {
	if o.PStackBottom == "" {
		o.PStackBottom = "$600"
	}
	if o.PStackSize == 0 {
		o.PStackSize = 256
	}
	if len(o.Sections) == 0 {
		o.Sections = DefaultSections()
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	return o
}

// runtimeText substitutes the two stack parameters into the runtime asset.
// The size is masked to 8 bits: 256 becomes 0, which the cold start loads
// into X so that the first push wraps to the top of the stack page.
func runtimeText(o Options) string {
	return strings.NewReplacer(
		"{pstack_bottom}", o.PStackBottom,
		"{pstack_size}", strconv.Itoa(o.PStackSize&0xff),
	).Replace(runtimeSource)
}

// runtimeSource is the fixed boot-section runtime: the inner interpreter
// and the code fields the threaded-code builder refers to by name (enter,
// exit, lit, const, branch, _if, until, while, do, loop, plus_loop,
// unloop). The parameter stack is indexed by X and grows downward from
// pstack+pstack_size; the hardware stack is the return stack.
const runtimeSource = `
\ threaded-code runtime

[text-section] boot

[code]
; zero page registers
fip	equ $80
fw	equ $82
ftmp	equ $84
fsave	equ $86

pstack	equ {pstack_bottom}
pstack_size	equ {pstack_size}

	jmp cold

; inner interpreter: fetch the cell at fip, advance fip, jump through the
; code field the cell names
next
	ldy #1
	lda (fip),y
	sta fw+1
	dey
	lda (fip),y
	sta fw
	clc
	lda fip
	adc #2
	sta fip
	bcc next_w
	inc fip+1
next_w
	ldy #1
	lda (fw),y
	sta ftmp+1
	dey
	lda (fw),y
	sta ftmp
	jmp (ftmp)

; code field of colon words
enter
	lda fip+1
	pha
	lda fip
	pha
	clc
	lda fw
	adc #2
	sta fip
	lda fw+1
	adc #0
	sta fip+1
	jmp next

; code field of constants and variables: push the cell after the code field
const
	ldy #2
	lda (fw),y
	sta ftmp
	iny
	lda (fw),y
	sta ftmp+1
	dex
	dex
	lda ftmp
	sta pstack,x
	lda ftmp+1
	sta pstack+1,x
	jmp next

exit
	dta a(*+2)
	pla
	sta fip
	pla
	sta fip+1
	jmp next

; push the in-line cell
lit
	dta a(*+2)
	dex
	dex
	ldy #0
	lda (fip),y
	sta pstack,x
	iny
	lda (fip),y
	sta pstack+1,x
	jmp skip_cell

; the in-line cell holds the address of the cell before the destination;
; branches land one cell past what they fetch
branch
	dta a(*+2)
take_branch
	ldy #0
	lda (fip),y
	sta ftmp
	iny
	lda (fip),y
	sta ftmp+1
	clc
	lda ftmp
	adc #2
	sta fip
	lda ftmp+1
	adc #0
	sta fip+1
	jmp next

; branch when the popped flag is zero, else step over the in-line cell
_if
	dta a(*+2)
	lda pstack,x
	ora pstack+1,x
	inx
	inx
	beq take_branch
skip_cell
	clc
	lda fip
	adc #2
	sta fip
	bcc *+4
	inc fip+1
	jmp next

until
	dta a(*+2)
	lda pstack,x
	ora pstack+1,x
	inx
	inx
	beq take_branch
	jmp skip_cell

while
	dta a(*+2)
	lda pstack,x
	ora pstack+1,x
	inx
	inx
	beq take_branch
	jmp skip_cell

; move limit and index to the return stack, index on top
do
	dta a(*+2)
	lda pstack+3,x
	pha
	lda pstack+2,x
	pha
	lda pstack+1,x
	pha
	lda pstack,x
	pha
	inx
	inx
	inx
	inx
	jmp next

; bump the index; iterate while index < limit (signed)
loop
	dta a(*+2)
	stx fsave
	tsx
	inc $101,x
	bne loop_chk
	inc $102,x
loop_chk
	sec
	lda $101,x
	sbc $103,x
	lda $102,x
	sbc $104,x
	bvc loop_sgn
	eor #$80
loop_sgn
	bmi loop_iter
	pla
	pla
	pla
	pla
	ldx fsave
	jmp skip_cell
loop_iter
	ldx fsave
	jmp take_branch

; like loop with the step popped from the parameter stack
plus_loop
	dta a(*+2)
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	inx
	inx
	stx fsave
	tsx
	clc
	lda $101,x
	adc ftmp
	sta $101,x
	lda $102,x
	adc ftmp+1
	sta $102,x
	jmp loop_chk

; drop the loop frame
unloop
	dta a(*+2)
	pla
	pla
	pla
	pla
	jmp next

cold
	cld
	ldx #pstack_size
	lda #<boot_thread
	sta fip
	lda #>boot_thread
	sta fip+1
	jmp next
boot_thread
	dta a(main)
	dta a(finis)
finis
	dta a(*+2)
	jmp *
[end-code]

[text-section] text
`
