// Package common — errors.go defines the sentinel errors shared by all
// feature modules. Handlers compare against these to pick a friendly
// reply instead of dumping internal errors at the chat.
package common

import "errors"

// Economy errors (points, transfers, gifts)
var (
	// ErrInsufficientPoints — not enough Astral Coins for the operation
	ErrInsufficientPoints = errors.New("not enough Astral Coins")
	// ErrInsufficientStamina — not enough stamina for the operation
	ErrInsufficientStamina = errors.New("not enough stamina")
	// ErrSelfTarget — the operation cannot target yourself
	ErrSelfTarget = errors.New("you cannot target yourself")
	// ErrInvalidAmount — zero or negative amount
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUserNotFound — target user is unknown to the bot
	ErrUserNotFound = errors.New("user not found")
)

// Sign-in errors
var (
	// ErrAlreadySigned — the user already signed in today
	ErrAlreadySigned = errors.New("already signed in today")
	// ErrMakeUpNotNeeded — the streak gap is not exactly one missed day
	ErrMakeUpNotNeeded = errors.New("no missed day to make up")
)

// Lottery errors
var (
	// ErrLotteryDailyLimit — daily draw cap reached
	ErrLotteryDailyLimit = errors.New("daily lottery limit reached (3 per day)")
)

// Market errors (ownership, labor, purchases)
var (
	// ErrAlreadyOwned — the target already belongs to this owner
	ErrAlreadyOwned = errors.New("this member already belongs to you")
	// ErrOwnedByOther — the target belongs to somebody else
	ErrOwnedByOther = errors.New("this member belongs to somebody else")
	// ErrNotOwned — the target does not belong to the caller
	ErrNotOwned = errors.New("this member does not belong to you")
	// ErrOwnedLimit — holding cap reached
	ErrOwnedLimit = errors.New("you cannot hold more than 3 members")
	// ErrPurchaseDailyLimit — daily purchase cap reached
	ErrPurchaseDailyLimit = errors.New("daily purchase limit reached (10 per day)")
	// ErrNotFree — the caller is not free (somebody owns them)
	ErrNotFree = errors.New("you are owned by somebody, redeem yourself first")
	// ErrFree — redeeming a free member makes no sense
	ErrFree = errors.New("nobody owns you")
	// ErrNeverWorked — forced redemption requires no work history, and vice versa
	ErrNeverWorked = errors.New("you have never worked for your owner")
	// ErrAlreadyWorked — cheap redemption requires work history
	ErrAlreadyWorked = errors.New("you already worked for your owner")
	// ErrNoWorkers — the caller owns nobody to send to work
	ErrNoWorkers = errors.New("you own nobody")
	// ErrUnknownJob — job name not in the catalog
	ErrUnknownJob = errors.New("unknown job")
)

// Shop and inventory errors
var (
	// ErrUnknownItem — item name not in the catalog
	ErrUnknownItem = errors.New("no such item in the shop")
	// ErrItemNotOwned — the user has none of the requested item
	ErrItemNotOwned = errors.New("you do not have this item")
	// ErrGiftItemUse — gift items are given away, not used on yourself
	ErrGiftItemUse = errors.New("gift items are given, not used")
	// ErrInventoryFull — total inventory cap reached
	ErrInventoryFull = errors.New("your inventory is full")
	// ErrStaminaFull — food would be wasted at full stamina
	ErrStaminaFull = errors.New("your stamina is already full")
)

// Adventure errors
var (
	// ErrNoStamina — not even one adventure turn is affordable
	ErrNoStamina = errors.New("not enough stamina for an adventure")
)

// Social errors (favorability, relationships, dates)
var (
	// ErrFavorCapped — favorability is parked at 100 without a special relationship
	ErrFavorCapped = errors.New("favorability is at 100, a special relationship is needed to go further")
	// ErrFavorTooLow — forming a relationship requires favorability 100
	ErrFavorTooLow = errors.New("favorability must reach 100 first")
	// ErrRelationSlotTaken — the initiator already has a relationship of this kind
	ErrRelationSlotTaken = errors.New("you already have a relationship of this kind")
	// ErrTargetSlotTaken — the target already has a relationship of this kind
	ErrTargetSlotTaken = errors.New("the target already has a relationship of this kind")
	// ErrAlreadyRelated — the pair is already bound by a relationship
	ErrAlreadyRelated = errors.New("you two are already bound by a relationship")
	// ErrNotRelated — there is no relationship to break
	ErrNotRelated = errors.New("you two have no relationship")
	// ErrDateDailyLimit — daily date cap reached
	ErrDateDailyLimit = errors.New("daily date limit reached (3 per day)")
	// ErrDatePending — the target already has a pending invitation
	ErrDatePending = errors.New("there is already a pending invitation")
	// ErrRelationGift — relation-sealing gifts go through the bond command
	ErrRelationGift = errors.New("this gift seals a relationship, use the bond command")
	// ErrAlreadyThanked — one thank-you bump per pair per day
	ErrAlreadyThanked = errors.New("you already thanked this member today")
)

// Title errors
var (
	// ErrTitleNotOwned — the user has not unlocked this title
	ErrTitleNotOwned = errors.New("you have not unlocked this title")
	// ErrNoTitleEquipped — nothing to take off
	ErrNoTitleEquipped = errors.New("you have no title equipped")
)

// Admin errors
var (
	// ErrNotAdmin — user is not an administrator
	ErrNotAdmin = errors.New("you are not an administrator")
	// ErrWrongPassword — invalid admin password
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts — too many failed login attempts
	ErrTooManyAttempts = errors.New("too many attempts, wait an hour")
	// ErrSessionExpired — admin session expired
	ErrSessionExpired = errors.New("session expired, log in again")
)
