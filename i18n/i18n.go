// Package i18n holds the UI and invoice labels for Arabic and English.
package i18n

import "strings"

// Default is used when no supported language is requested.
const Default = "ar"

var supported = map[string]bool{"ar": true, "en": true}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool { return supported[lang] }

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if supported[base] {
			return base
		}
	}
	return Default
}

// Dir is the text direction for lang.
func Dir(lang string) string {
	if lang == "ar" {
		return "rtl"
	}
	return "ltr"
}

// T translates code. Unknown languages fall back to Arabic and unknown codes
// are returned as-is.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

var messages = map[string]map[string]string{
	"en": {
		"required":               "Required",
		"invalid":                "Invalid value",
		"must_be_positive":       "Must be greater than zero",
		"must_not_be_negative":   "Must not be negative",
		"must_not_be_zero":       "Must not be zero",
		"out_of_range":           "Out of range",
		"conflicting_unit_price": "Same product at two prices",
		"cart_empty":             "The cart is empty",
		"customer_name_required": "Enter a customer name or pick a customer",
		"customer_not_found":     "Customer not found",
		"product_not_found":      "Product not found",
		"order_not_found":        "Order not found",
		"invalid_date_range":     "Start date must not be after end date",
		"insufficient_stock":     "Not enough stock",
		"store_error":            "Could not reach the store",
		"validation_failed":      "Please correct the fields below",
		"invalid_credentials":    "Wrong password",
		"order_placed":           "Order saved",
		"stock_adjusted":         "Stock updated",
		"product_saved":          "Product saved",
		"customer_saved":         "Customer saved",
		"settings_saved":         "Settings saved",
		"nav.dashboard":          "Dashboard",
		"nav.pos":                "New order",
		"nav.products":           "Products",
		"nav.customers":          "Customers",
		"nav.stock":              "Stock",
		"nav.orders":             "Orders",
		"nav.reports":            "Reports",
		"nav.settings":           "Settings",
		"nav.logout":             "Log out",
		"invoice.title":          "Invoice",
		"invoice.order":          "Order",
		"invoice.date":           "Date",
		"invoice.channel":        "Channel",
		"invoice.pricing":        "Pricing",
		"invoice.customer":       "Customer",
		"invoice.address":        "Address",
		"invoice.phone":          "Phone",
		"invoice.item":           "Item",
		"invoice.sku":            "SKU",
		"invoice.qty":            "Qty",
		"invoice.unit_price":     "Unit price",
		"invoice.line_total":     "Total",
		"invoice.subtotal":       "Subtotal",
		"invoice.discount":       "Discount",
		"invoice.delivery":       "Delivery",
		"invoice.total":          "Total",
		"invoice.deposit":        "Deposit",
		"invoice.balance":        "Balance due",
		"invoice.status":         "Status",
		"invoice.notes":          "Notes",
		"invoice.thanks":         "Thank you for your purchase",
		// page labels
		"ui.password":            "Password",
		"ui.sign_in":             "Sign in",
		"ui.sku":                 "SKU",
		"ui.name":                "Name",
		"ui.retail_price":        "Retail price",
		"ui.wholesale_price":     "Wholesale price",
		"ui.in_stock":            "In stock",
		"ui.low_stock_threshold": "Low stock threshold",
		"ui.active":              "Active",
		"ui.notes":               "Notes",
		"ui.save":                "Save",
		"ui.edit":                "Edit",
		"ui.new_product":         "New product",
		"ui.new_customer":        "New customer",
		"ui.phone":               "Phone",
		"ui.address":             "Address",
		"ui.customer":            "Customer",
		"ui.qty":                 "Qty",
		"ui.unit_price":          "Unit price",
		"ui.line_total":          "Line total",
		"ui.add":                 "Add",
		"ui.remove":              "Remove",
		"ui.cart":                "Cart",
		"ui.subtotal":            "Subtotal",
		"ui.discount":            "Discount",
		"ui.delivery":            "Delivery",
		"ui.deposit":             "Deposit",
		"ui.total":               "Total",
		"ui.channel":             "Channel",
		"ui.pricing":             "Pricing",
		"ui.status":              "Status",
		"ui.place_order":         "Place order",
		"ui.invoice":             "Invoice",
		"ui.last_order":          "Last order",
		"ui.low_stock":           "Low stock",
		"ui.product_count":       "Products",
		"ui.today_orders":        "Orders today",
		"ui.today_sales":         "Sales today",
		"ui.recent_orders":       "Recent orders",
		"ui.date":                "Date",
		"ui.order":               "Order",
		"ui.start":               "From",
		"ui.end":                 "To",
		"ui.show":                "Show",
		"ui.export_csv":          "Export CSV",
		"ui.order_count":         "Orders",
		"ui.total_sales":         "Total sales",
		"ui.top_sold":            "Best sellers",
		"ui.sold_qty":            "Sold",
		"ui.delta":               "Change",
		"ui.reason":              "Reason",
		"ui.adjust":              "Adjust stock",
		"ui.movements":           "Stock movements",
		"ui.all":                 "All",
		"ui.business_name":       "Business name",
		"ui.logo":                "Logo",
		"ui.remove_logo":         "Remove logo",
		"ui.none":                "Nothing yet",
		"ui.items":               "Items",
		"ui.back":                "Back",
		"ui.short_by":            "Short by",
		"ui.available":           "Available",
	},
	"ar": {
		"required":               "مطلوب",
		"invalid":                "قيمة غير صالحة",
		"must_be_positive":       "يجب أن تكون أكبر من صفر",
		"must_not_be_negative":   "لا يمكن أن تكون سالبة",
		"must_not_be_zero":       "لا يمكن أن تكون صفرًا",
		"out_of_range":           "خارج النطاق",
		"conflicting_unit_price": "نفس المنتج بسعرين مختلفين",
		"cart_empty":             "السلة فارغة",
		"customer_name_required": "أدخل اسم العميل أو اختر عميلًا",
		"customer_not_found":     "العميل غير موجود",
		"product_not_found":      "المنتج غير موجود",
		"order_not_found":        "الطلب غير موجود",
		"invalid_date_range":     "تاريخ البداية بعد تاريخ النهاية",
		"insufficient_stock":     "المخزون غير كافٍ",
		"store_error":            "تعذر الوصول إلى جدول البيانات",
		"validation_failed":      "يرجى تصحيح الحقول أدناه",
		"invalid_credentials":    "كلمة المرور غير صحيحة",
		"order_placed":           "تم حفظ الطلب",
		"stock_adjusted":         "تم تحديث المخزون",
		"product_saved":          "تم حفظ المنتج",
		"customer_saved":         "تم حفظ العميل",
		"settings_saved":         "تم حفظ الإعدادات",
		"nav.dashboard":          "لوحة التحكم",
		"nav.pos":                "طلب جديد",
		"nav.products":           "المنتجات",
		"nav.customers":          "العملاء",
		"nav.stock":              "المخزون",
		"nav.orders":             "الطلبات",
		"nav.reports":            "التقارير",
		"nav.settings":           "الإعدادات",
		"nav.logout":             "تسجيل الخروج",
		"invoice.title":          "فاتورة",
		"invoice.order":          "رقم الطلب",
		"invoice.date":           "التاريخ",
		"invoice.channel":        "القناة",
		"invoice.pricing":        "نوع التسعير",
		"invoice.customer":       "العميل",
		"invoice.address":        "العنوان",
		"invoice.phone":          "الهاتف",
		"invoice.item":           "الصنف",
		"invoice.sku":            "الكود",
		"invoice.qty":            "الكمية",
		"invoice.unit_price":     "سعر الوحدة",
		"invoice.line_total":     "الإجمالي",
		"invoice.subtotal":       "المجموع الفرعي",
		"invoice.discount":       "الخصم",
		"invoice.delivery":       "التوصيل",
		"invoice.total":          "الإجمالي",
		"invoice.deposit":        "العربون",
		"invoice.balance":        "المتبقي",
		"invoice.status":         "الحالة",
		"invoice.notes":          "ملاحظات",
		"invoice.thanks":         "شكرًا لتسوقكم معنا",
		// page labels
		"ui.password":            "كلمة المرور",
		"ui.sign_in":             "دخول",
		"ui.sku":                 "الكود",
		"ui.name":                "الاسم",
		"ui.retail_price":        "سعر التجزئة",
		"ui.wholesale_price":     "سعر الجملة",
		"ui.in_stock":            "المتوفر",
		"ui.low_stock_threshold": "حد التنبيه",
		"ui.active":              "نشط",
		"ui.notes":               "ملاحظات",
		"ui.save":                "حفظ",
		"ui.edit":                "تعديل",
		"ui.new_product":         "منتج جديد",
		"ui.new_customer":        "عميل جديد",
		"ui.phone":               "الهاتف",
		"ui.address":             "العنوان",
		"ui.customer":            "العميل",
		"ui.qty":                 "الكمية",
		"ui.unit_price":          "سعر الوحدة",
		"ui.line_total":          "الإجمالي",
		"ui.add":                 "إضافة",
		"ui.remove":              "حذف",
		"ui.cart":                "السلة",
		"ui.subtotal":            "المجموع الفرعي",
		"ui.discount":            "الخصم",
		"ui.delivery":            "التوصيل",
		"ui.deposit":             "العربون",
		"ui.total":               "الإجمالي",
		"ui.channel":             "القناة",
		"ui.pricing":             "نوع التسعير",
		"ui.status":              "الحالة",
		"ui.place_order":         "حفظ الطلب",
		"ui.invoice":             "الفاتورة",
		"ui.last_order":          "آخر طلب",
		"ui.low_stock":           "مخزون منخفض",
		"ui.product_count":       "المنتجات",
		"ui.today_orders":        "طلبات اليوم",
		"ui.today_sales":         "مبيعات اليوم",
		"ui.recent_orders":       "أحدث الطلبات",
		"ui.date":                "التاريخ",
		"ui.order":               "الطلب",
		"ui.start":               "من",
		"ui.end":                 "إلى",
		"ui.show":                "عرض",
		"ui.export_csv":          "تصدير CSV",
		"ui.order_count":         "عدد الطلبات",
		"ui.total_sales":         "إجمالي المبيعات",
		"ui.top_sold":            "الأكثر مبيعًا",
		"ui.sold_qty":            "المباع",
		"ui.delta":               "التغيير",
		"ui.reason":              "السبب",
		"ui.adjust":              "تعديل المخزون",
		"ui.movements":           "حركات المخزون",
		"ui.all":                 "الكل",
		"ui.business_name":       "اسم النشاط",
		"ui.logo":                "الشعار",
		"ui.remove_logo":         "حذف الشعار",
		"ui.none":                "لا يوجد",
		"ui.items":               "الأصناف",
		"ui.back":                "رجوع",
		"ui.short_by":            "النقص",
		"ui.available":           "المتوفر",
	},
}
