package forth65

// coreText is the fixed base vocabulary, compiled through the normal
// pipeline after the runtime and before user input. Every word is an
// inline-code word over the boot runtime's registers; unreferenced ones
// are eliminated with the rest of the dead code.
const coreText = `
\ core vocabulary

: dup [code]
	dex
	dex
	lda pstack+2,x
	sta pstack,x
	lda pstack+3,x
	sta pstack+1,x
	jmp next
[end-code] ;

: drop [code]
	inx
	inx
	jmp next
[end-code] ;

: swap [code]
	lda pstack,x
	sta ftmp
	lda pstack+2,x
	sta pstack,x
	lda ftmp
	sta pstack+2,x
	lda pstack+1,x
	sta ftmp
	lda pstack+3,x
	sta pstack+1,x
	lda ftmp
	sta pstack+3,x
	jmp next
[end-code] ;

: over [code]
	dex
	dex
	lda pstack+4,x
	sta pstack,x
	lda pstack+5,x
	sta pstack+1,x
	jmp next
[end-code] ;

: rot [code]
	lda pstack+4,x
	sta ftmp
	lda pstack+2,x
	sta pstack+4,x
	lda pstack,x
	sta pstack+2,x
	lda ftmp
	sta pstack,x
	lda pstack+5,x
	sta ftmp
	lda pstack+3,x
	sta pstack+5,x
	lda pstack+1,x
	sta pstack+3,x
	lda ftmp
	sta pstack+1,x
	jmp next
[end-code] ;

: nip [code]
	lda pstack,x
	sta pstack+2,x
	lda pstack+1,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: ?dup [label] q_dup [code]
	lda pstack,x
	ora pstack+1,x
	beq q_dup_done
	dex
	dex
	lda pstack+2,x
	sta pstack,x
	lda pstack+3,x
	sta pstack+1,x
q_dup_done
	jmp next
[end-code] ;

: >r [label] to_r [code]
	lda pstack+1,x
	pha
	lda pstack,x
	pha
	inx
	inx
	jmp next
[end-code] ;

: r> [label] r_from [code]
	dex
	dex
	pla
	sta pstack,x
	pla
	sta pstack+1,x
	jmp next
[end-code] ;

: r@ [label] r_fetch [code]
	stx fsave
	tsx
	lda $101,x
	sta ftmp
	lda $102,x
	sta ftmp+1
	ldx fsave
	dex
	dex
	lda ftmp
	sta pstack,x
	lda ftmp+1
	sta pstack+1,x
	jmp next
[end-code] ;

: + [label] plus [code]
	clc
	lda pstack,x
	adc pstack+2,x
	sta pstack+2,x
	lda pstack+1,x
	adc pstack+3,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: - [label] minus [code]
	sec
	lda pstack+2,x
	sbc pstack,x
	sta pstack+2,x
	lda pstack+3,x
	sbc pstack+1,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: 1+ [label] one_plus [code]
	inc pstack,x
	bne *+5
	inc pstack+1,x
	jmp next
[end-code] ;

: 1- [label] one_minus [code]
	lda pstack,x
	bne *+5
	dec pstack+1,x
	dec pstack,x
	jmp next
[end-code] ;

: 2* [label] two_star [code]
	asl pstack,x
	rol pstack+1,x
	jmp next
[end-code] ;

: 2/ [label] two_slash [code]
	lda pstack+1,x
	cmp #$80
	ror pstack+1,x
	ror pstack,x
	jmp next
[end-code] ;

: and [label] and_op [code]
	lda pstack,x
	and pstack+2,x
	sta pstack+2,x
	lda pstack+1,x
	and pstack+3,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: or [label] or_op [code]
	lda pstack,x
	ora pstack+2,x
	sta pstack+2,x
	lda pstack+1,x
	ora pstack+3,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: xor [label] xor_op [code]
	lda pstack,x
	eor pstack+2,x
	sta pstack+2,x
	lda pstack+1,x
	eor pstack+3,x
	sta pstack+3,x
	inx
	inx
	jmp next
[end-code] ;

: 0= [label] zero_eq [code]
	lda pstack,x
	ora pstack+1,x
	beq zero_eq_true
	lda #0
	beq zero_eq_store
zero_eq_true
	lda #$ff
zero_eq_store
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: 0<> [label] zero_ne [code]
	lda pstack,x
	ora pstack+1,x
	beq zero_ne_store
	lda #$ff
zero_ne_store
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: = [label] equals [code]
	lda pstack,x
	cmp pstack+2,x
	bne equals_no
	lda pstack+1,x
	cmp pstack+3,x
	bne equals_no
	lda #$ff
	bne equals_store
equals_no
	lda #0
equals_store
	inx
	inx
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: <> [label] not_equals [code]
	lda pstack,x
	cmp pstack+2,x
	bne not_equals_yes
	lda pstack+1,x
	cmp pstack+3,x
	bne not_equals_yes
	lda #0
	beq not_equals_store
not_equals_yes
	lda #$ff
not_equals_store
	inx
	inx
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: < [label] less_than [code]
	sec
	lda pstack+2,x
	sbc pstack,x
	lda pstack+3,x
	sbc pstack+1,x
	bvc less_than_sign
	eor #$80
less_than_sign
	bmi less_than_yes
	lda #0
	beq less_than_store
less_than_yes
	lda #$ff
less_than_store
	inx
	inx
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: > [label] greater_than [code]
	sec
	lda pstack,x
	sbc pstack+2,x
	lda pstack+1,x
	sbc pstack+3,x
	bvc greater_than_sign
	eor #$80
greater_than_sign
	bmi greater_than_yes
	lda #0
	beq greater_than_store
greater_than_yes
	lda #$ff
greater_than_store
	inx
	inx
	sta pstack,x
	sta pstack+1,x
	jmp next
[end-code] ;

: @ [label] fetch [code]
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	ldy #0
	lda (ftmp),y
	sta pstack,x
	iny
	lda (ftmp),y
	sta pstack+1,x
	jmp next
[end-code] ;

: ! [label] store [code]
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	ldy #0
	lda pstack+2,x
	sta (ftmp),y
	iny
	lda pstack+3,x
	sta (ftmp),y
	inx
	inx
	inx
	inx
	jmp next
[end-code] ;

: c@ [label] cfetch [code]
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	ldy #0
	lda (ftmp),y
	sta pstack,x
	lda #0
	sta pstack+1,x
	jmp next
[end-code] ;

: c! [label] cstore [code]
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	ldy #0
	lda pstack+2,x
	sta (ftmp),y
	inx
	inx
	inx
	inx
	jmp next
[end-code] ;

: +! [label] plus_store [code]
	lda pstack,x
	sta ftmp
	lda pstack+1,x
	sta ftmp+1
	ldy #0
	clc
	lda (ftmp),y
	adc pstack+2,x
	sta (ftmp),y
	iny
	lda (ftmp),y
	adc pstack+3,x
	sta (ftmp),y
	inx
	inx
	inx
	inx
	jmp next
[end-code] ;

: i [code]
	stx fsave
	tsx
	lda $101,x
	sta ftmp
	lda $102,x
	sta ftmp+1
	ldx fsave
	dex
	dex
	lda ftmp
	sta pstack,x
	lda ftmp+1
	sta pstack+1,x
	jmp next
[end-code] ;

: j [code]
	stx fsave
	tsx
	lda $105,x
	sta ftmp
	lda $106,x
	sta ftmp+1
	ldx fsave
	dex
	dex
	lda ftmp
	sta pstack,x
	lda ftmp+1
	sta pstack+1,x
	jmp next
[end-code] ;

: execute [code]
	lda pstack,x
	sta fw
	lda pstack+1,x
	sta fw+1
	inx
	inx
	ldy #1
	lda (fw),y
	sta ftmp+1
	dey
	lda (fw),y
	sta ftmp
	jmp (ftmp)
[end-code] ;

: stop [code]
	jmp *
[end-code] ;
`
